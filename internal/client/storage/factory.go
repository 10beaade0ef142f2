// Package storage constructs object-storage clients bound to the current
// short-lived credentials for a scope. The SDK pulls credentials through a
// provider function that reads the shared cache, so a mid-operation refresh
// lands in the cache for every subsequent operation too.
package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/memoirapp/mediakit/internal/client/credcache"
	"github.com/memoirapp/mediakit/internal/logging"
)

// Seams for tests.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
)

// CredentialSource yields a usable credential for a scope, cache-first with
// backend fallback. Satisfied by *credcache.Provider.
type CredentialSource interface {
	Credential(ctx context.Context, scope credcache.Scope) (*credcache.Credential, error)
}

type Factory struct {
	creds CredentialSource
	// endpoint overrides the SDK's endpoint resolution for MinIO/OSS-style
	// deployments; empty means the SDK default.
	endpoint  string
	pathStyle bool
	log       logging.Logger
}

func NewFactory(creds CredentialSource, endpoint string, pathStyle bool, log logging.Logger) *Factory {
	return &Factory{creds: creds, endpoint: endpoint, pathStyle: pathStyle, log: log}
}

// Client returns an S3 client for the scope together with the bucket the
// scope's credentials are bound to. The client re-resolves credentials from
// the shared cache whenever the SDK decides the current ones expired.
func (f *Factory) Client(ctx context.Context, scope credcache.Scope) (*s3.Client, string, error) {
	cred, err := f.creds.Credential(ctx, scope)
	if err != nil {
		return nil, "", fmt.Errorf("resolving credentials for scope %s: %w", scope, err)
	}

	refresh := aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		c, err := f.creds.Credential(ctx, scope)
		if err != nil {
			return aws.Credentials{}, err
		}
		return aws.Credentials{
			AccessKeyID:     c.AccessKeyID,
			SecretAccessKey: c.AccessKeySecret,
			SessionToken:    c.SecurityToken,
			CanExpire:       true,
			Expires:         c.Expiration,
			Source:          "MemoirBackend",
		}, nil
	})

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cred.Region),
		config.WithCredentialsProvider(refresh),
	)
	if err != nil {
		return nil, "", fmt.Errorf("loading storage config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if f.endpoint != "" {
			o.BaseEndpoint = aws.String(f.endpoint)
		}
		o.UsePathStyle = f.pathStyle
	})

	return client, cred.Bucket, nil
}

// PresignClient wraps Client for query-string URL signing.
func (f *Factory) PresignClient(ctx context.Context, scope credcache.Scope) (*s3.PresignClient, string, error) {
	client, bucket, err := f.Client(ctx, scope)
	if err != nil {
		return nil, "", err
	}
	return newS3PresignClient(client), bucket, nil
}
