package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/TwigBush/indexgate/internal/dispatch"
	"github.com/TwigBush/indexgate/internal/handlers"
	"github.com/TwigBush/indexgate/internal/httpx"
	mw2 "github.com/TwigBush/indexgate/internal/mw"
	"github.com/TwigBush/indexgate/internal/trace"
)

type Options struct {
	AllowedOrigins []string // empty disables CORS
	Logger         *slog.Logger
}

type Deps struct {
	Pipeline *dispatch.Pipeline
}

// route binds one API path to the operation it dispatches.
type route struct {
	Method string
	Path   string
	Header string // where the credential is read from
	Kind   dispatch.Kind
	h      func(*handlers.Products, *handlers.Reports) http.HandlerFunc
}

const reportOverviewPath = "/api/system-report/competitor-crawling-report/overview/by-report-date"

var routes = []route{
	{http.MethodPost, "/api/products/search", httpx.HeaderXAuthorization, dispatch.KindSearch,
		func(p *handlers.Products, _ *handlers.Reports) http.HandlerFunc { return p.Search }},
	{http.MethodPost, "/api/products/count", httpx.HeaderXAuthorization, dispatch.KindCount,
		func(p *handlers.Products, _ *handlers.Reports) http.HandlerFunc { return p.Count }},
	{http.MethodPost, "/api/products/index", httpx.HeaderXAuthorization, dispatch.KindCreateIndex,
		func(p *handlers.Products, _ *handlers.Reports) http.HandlerFunc { return p.CreateIndex }},
	{http.MethodPost, "/api/products/index/bulk", httpx.HeaderXAuthorization, dispatch.KindCreateIndexBulk,
		func(p *handlers.Products, _ *handlers.Reports) http.HandlerFunc { return p.CreateIndexBulk }},
	{http.MethodGet, "/api/products/{id}", httpx.HeaderXAuthorization, dispatch.KindFindByID,
		func(p *handlers.Products, _ *handlers.Reports) http.HandlerFunc { return p.FindByID }},
	{http.MethodDelete, "/api/products/index/{id}", httpx.HeaderXAuthorization, dispatch.KindDeleteIndex,
		func(p *handlers.Products, _ *handlers.Reports) http.HandlerFunc { return p.DeleteIndex }},
	{http.MethodPost, "/api/products/index/{master_product_id}/sync", httpx.HeaderXAuthorization, dispatch.KindSync,
		func(p *handlers.Products, _ *handlers.Reports) http.HandlerFunc { return p.Sync }},
	{http.MethodGet, reportOverviewPath, httpx.HeaderAuthorization, dispatch.KindFindOverviewReportByDate,
		func(_ *handlers.Products, r *handlers.Reports) http.HandlerFunc { return r.OverviewByReportDate }},
}

func BuildRouter(d Deps, opts Options, mw ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	// baseline
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", httpx.HeaderAuthorization, httpx.HeaderXAuthorization, trace.Header},
			ExposedHeaders: []string{trace.Header},
			MaxAge:         300,
		}))
	}
	for _, m := range mw {
		r.Use(m)
	}

	// tracing + logger
	r.Use(mw2.Trace())
	r.Use(mw2.Logger(mw2.LogOpts{
		Logger:    opts.Logger,
		SkipPaths: []string{"/healthz", "/version"},
	}))

	r.Get("/healthz", handlers.Health)
	r.Get("/version", handlers.Version)

	products := handlers.NewProducts(d.Pipeline)
	reports := handlers.NewReports(d.Pipeline)

	r.Group(func(api chi.Router) {
		api.Use(mw2.NoStore)
		for _, rt := range routes {
			api.Method(rt.Method, rt.Path, rt.h(products, reports))
		}
		api.Get("/api/operations", OperationsHandler(d.Pipeline.Table()))
	})

	return r
}
