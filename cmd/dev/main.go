package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/TwigBush/indexgate/internal/authz"
	"github.com/TwigBush/indexgate/internal/config"
	"github.com/TwigBush/indexgate/internal/di"
	"github.com/TwigBush/indexgate/internal/dispatch"
	"github.com/TwigBush/indexgate/internal/index"
	"github.com/TwigBush/indexgate/internal/metrics"
	"github.com/TwigBush/indexgate/internal/server"
	"github.com/TwigBush/indexgate/internal/types"
)

// dev runs the gateway against an in-memory index and a static oracle.
// tok-dev holds every permission, tok-read only list and view.
func main() {
	apiAddr := flag.String("api", ":8080", "API addr")
	metricsAddr := flag.String("metrics", ":9090", "metrics addr")
	guardDelete := flag.Bool("guard-delete", false, "require RetailVerification:Delete for delete_index")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	oracle, err := authz.NewStatic(false, map[string][]string{
		"tok-dev":  authz.PermissionNames(),
		"tok-read": {"pricing:list", "pricing:view", "report:view"},
	})
	if err != nil {
		panic(err)
	}

	store := index.NewMemoryStore()
	seed(store)

	pipeline := di.NewPipeline(oracle,
		dispatch.Services{Index: store, Stream: store, Reports: store},
		config.AuthzConfig{Timeout: authz.DefaultTimeout, GuardDelete: *guardDelete},
		logger,
	)

	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		panic(err)
	}
	api := server.BuildRouter(server.Deps{Pipeline: pipeline}, server.Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		Logger:         logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx, *apiAddr, api, "api") })
	g.Go(func() error { return server.Run(gctx, *metricsAddr, metrics.Handler(reg), "metrics") })

	if err := g.Wait(); err != nil {
		logger.Error("exit", "err", err)
		os.Exit(1)
	}
}

func seed(s *index.MemoryStore) {
	ctx := context.Background()
	band := func(b string) *string { return &b }
	super := int64(500)
	docs := []types.VerificationIndexRequest{
		{ID: "278226963", ProductName: "Electric kettle 1.7L", Price: 459000, PageviewBand: band("A"), IsPurchasable: true, Is1PAvailable: true},
		{ID: "278226964", SuperID: &super, ProductName: "Electric kettle 1.7L (blue)", Price: 469000, PageviewBand: band("B"), Is3PAvailable: true},
		{ID: "278226965", SuperID: &super, ProductName: "Electric kettle 1.7L (red)", Price: 469000, PageviewBand: band("C"), Is3PAvailable: true},
	}
	if err := s.CreateIndexBulk(ctx, docs); err != nil {
		log.Fatal(err)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	s.PutOverviewReport(today, "https://reports.example/competitor-crawling/"+today.Format("2006-01-02")+".xlsx")
}
