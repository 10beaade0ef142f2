// Package stscreds mints the short-lived storage credentials the token
// endpoint hands out. With a role ARN configured, credentials come from STS
// AssumeRole with a session policy pinned to the requested scope prefix;
// without one, the server's own credentials are handed out with a short
// expiration, which is good enough for plain MinIO development setups.
package stscreds

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/google/uuid"
)

// Credentials is one issued set of temporary storage credentials.
type Credentials struct {
	AccessKeyID     string
	AccessKeySecret string
	SecurityToken   string
	Expiration      time.Time
}

// Issuer mints credentials restricted to one scope prefix.
type Issuer interface {
	Issue(ctx context.Context, scope string) (*Credentials, error)
}

// sessionPolicyTemplate narrows the assumed role to one prefix of the bucket.
const sessionPolicyTemplate = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Action": ["s3:GetObject", "s3:PutObject", "s3:AbortMultipartUpload", "s3:ListMultipartUploadParts"],
      "Resource": ["arn:aws:s3:::%s/%s/*"]
    }
  ]
}`

type assumeRoleAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

// Test seams.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
	newSTSClient         = func(cfg aws.Config, optFns ...func(*sts.Options)) assumeRoleAPI {
		return sts.NewFromConfig(cfg, optFns...)
	}
)

// AssumeRoleIssuer calls STS AssumeRole per request.
type AssumeRoleIssuer struct {
	client  assumeRoleAPI
	roleArn string
	bucket  string
	ttl     time.Duration
}

func NewAssumeRoleIssuer(ctx context.Context, rootUser, rootPassword, region, endpoint, roleArn, bucket string, ttl time.Duration) (*AssumeRoleIssuer, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(rootUser, rootPassword, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := newSTSClient(cfg, func(o *sts.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &AssumeRoleIssuer{client: client, roleArn: roleArn, bucket: bucket, ttl: ttl}, nil
}

func (i *AssumeRoleIssuer) Issue(ctx context.Context, scope string) (*Credentials, error) {
	policy := fmt.Sprintf(sessionPolicyTemplate, i.bucket, scope)

	out, err := i.client.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(i.roleArn),
		RoleSessionName: aws.String("memoir-" + scope + "-" + uuid.NewString()[:8]),
		DurationSeconds: aws.Int32(int32(i.ttl.Seconds())),
		Policy:          aws.String(policy),
	})
	if err != nil {
		return nil, fmt.Errorf("assume role: %w", err)
	}

	c := out.Credentials
	return &Credentials{
		AccessKeyID:     aws.ToString(c.AccessKeyId),
		AccessKeySecret: aws.ToString(c.SecretAccessKey),
		SecurityToken:   aws.ToString(c.SessionToken),
		Expiration:      aws.ToTime(c.Expiration),
	}, nil
}

// StaticIssuer hands out the configured root credentials with a synthetic
// expiration. Scope is ignored; there is no isolation between scopes in this
// mode.
type StaticIssuer struct {
	accessKeyID     string
	accessKeySecret string
	ttl             time.Duration

	now func() time.Time
}

func NewStaticIssuer(accessKeyID, accessKeySecret string, ttl time.Duration) *StaticIssuer {
	return &StaticIssuer{
		accessKeyID:     accessKeyID,
		accessKeySecret: accessKeySecret,
		ttl:             ttl,
		now:             time.Now,
	}
}

func (i *StaticIssuer) Issue(ctx context.Context, scope string) (*Credentials, error) {
	return &Credentials{
		AccessKeyID:     i.accessKeyID,
		AccessKeySecret: i.accessKeySecret,
		Expiration:      i.now().Add(i.ttl),
	}, nil
}
