// Package cli implements the interactive Memoir client: a small REPL over
// the upload/signing pipeline.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/memoirapp/mediakit/internal/client/api"
	"github.com/memoirapp/mediakit/internal/client/config"
	"github.com/memoirapp/mediakit/internal/client/credcache"
	"github.com/memoirapp/mediakit/internal/client/feed"
	"github.com/memoirapp/mediakit/internal/client/localdb"
	"github.com/memoirapp/mediakit/internal/client/objectkey"
	"github.com/memoirapp/mediakit/internal/client/signer"
	"github.com/memoirapp/mediakit/internal/client/storage"
	"github.com/memoirapp/mediakit/internal/client/uploader"
	"github.com/memoirapp/mediakit/internal/filex"
	"github.com/memoirapp/mediakit/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger

	db           *sql.DB
	api          *api.Client
	cache        *credcache.Cache
	provider     *credcache.Provider
	factory      *storage.Factory
	keys         *objectkey.Generator
	resolver     *signer.Resolver
	orchestrator *uploader.Orchestrator
	loader       *feed.Loader

	userName string
	scope    credcache.Scope

	in  *bufio.Reader
	out io.Writer
}

// NewApp wires the whole client pipeline: local sqlite state, backend API
// client, credential cache/provider, storage factory, uploader, signer, and
// feed loader.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	dir, err := filex.EnsureSubDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("preparing data dir: %w", err)
	}

	db, err := localdb.Open(ctx, filepath.Join(dir, "memoir.db"))
	if err != nil {
		return nil, err
	}

	backend := api.New(cfg.APIBaseURL, cfg.APIPathPrefix, cfg.RequestTimeout, log)

	cache := credcache.NewCache(credcache.NewSQLiteStore(db), log)
	provider := credcache.NewProvider(backend, cache, log)
	factory := storage.NewFactory(provider, cfg.StorageEndpoint, cfg.StoragePathStyle, log)
	keys := objectkey.NewGenerator()
	// every backend response refreshes the trusted clock baseline
	backend.OnServerDate(keys.SetBaseline)
	resolver := signer.NewResolver(factory, log).WithExpiry(cfg.SignedURLExpiry)

	scope := credcache.Scope(cfg.DefaultScope)

	a := &App{
		config:       cfg,
		log:          log,
		db:           db,
		api:          backend,
		cache:        cache,
		provider:     provider,
		factory:      factory,
		keys:         keys,
		resolver:     resolver,
		orchestrator: uploader.NewOrchestrator(factory, keys, backend, resolver, log),
		scope:        scope,
		in:           bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}
	a.loader = feed.NewLoader(backend, resolver, scope, cfg.PageSize, log)
	return a, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}

// setScope switches between personal and couple storage. The feed loader is
// scope-bound and starts over.
func (a *App) setScope(scope credcache.Scope) {
	a.scope = scope
	a.loader = feed.NewLoader(a.api, a.resolver, scope, a.config.PageSize, a.log)
}
