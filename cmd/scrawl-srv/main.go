package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"

	"github.com/scrawl-games/scrawl/internal/cache/cachelru"
	"github.com/scrawl-games/scrawl/internal/database"
	resultdb "github.com/scrawl-games/scrawl/internal/database/result/database"
	"github.com/scrawl-games/scrawl/internal/logging"
	"github.com/scrawl-games/scrawl/internal/resource"
	"github.com/scrawl-games/scrawl/internal/scrawl"
	"github.com/scrawl-games/scrawl/internal/server"
	"github.com/scrawl-games/scrawl/internal/shutdown"
	"github.com/scrawl-games/scrawl/internal/wordbank"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, resource.Graffiti)
	_, _ = fmt.Fprintf(
		os.Stdout,
		resource.GreetingCLI,
		resource.ProjectName,
		resource.ProjectVersion,
		resource.GithubUrl,
	)

	ctx, done := shutdown.New()
	defer done()

	config := scrawl.Config{}
	if err := envconfig.Process("", &config); err != nil {
		logging.DefaultLogger().Fatalf("processing the config: %v", err)
	}

	ctx = logging.WithLogger(ctx, logging.NewLogger(config.Debug))
	logger := logging.FromContext(ctx)
	if err := realMain(ctx, &config); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context, config *scrawl.Config) error {
	logger := logging.FromContext(ctx)

	db, err := database.NewFromEnv(ctx, &config.Db)
	if err != nil {
		return fmt.Errorf("new database from env: %w", err)
	}

	defer db.Close(ctx)

	resultCache, err := cachelru.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	gateway := scrawl.NewGateway()
	manager := scrawl.NewManager(config, wordbank.Default(), gateway, resultdb.New(db, resultCache))
	r := scrawl.Router(ctx, manager, gateway)

	srv, err := server.New(config.Port)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	profSrv, err := server.New(config.ProfPort)
	if err != nil {
		return fmt.Errorf("server.New pprof: %w", err)
	}

	logger.Infof("listening on %s, pprof on %s", srv.Addr(), profSrv.Addr())

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.ServeHTTP(gctx, &http.Server{Handler: r})
	})
	group.Go(func() error {
		return profSrv.ServeHTTP(gctx, &http.Server{Handler: http.DefaultServeMux})
	})

	return group.Wait()
}
