//
// truthledger
// ===========
// HTTP service around the TruthLedger engine: a deterministic,
// rule-enforcing ledger of articles, revisions, votes, profiles and
// HASH balances.
//
// Boot the server:
// ----------------
// $ go run . -owner 0xowner
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/articles
// []
//
// $ curl -X POST -H 'X-Ledger-Caller: 0xalice' \
//     -d '{"title":"Title A","category":"HumanRights","contentRef":"QmHashA"}' \
//     http://localhost:3333/articles
// {"id":1}
//
// $ curl -X POST -H 'X-Ledger-Caller: 0xbob' \
//     -d '{"credible":true,"comment":"checks out"}' \
//     http://localhost:3333/articles/1/votes
// {"articleId":1,"index":1,"score":1}
//
// Passing -routes generates markdown docs for the router.
//
package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"

	"github.com/truthledger/truthledger/internal/api"
	"github.com/truthledger/truthledger/internal/config"
	"github.com/truthledger/truthledger/internal/eventdb"
	"github.com/truthledger/truthledger/internal/ledger"
	"github.com/truthledger/truthledger/internal/model"
)

const ServiceName = "truthledger"

type CtxKey int8

const (
	CtxKeyLogger CtxKey = iota
)

type App struct {
	sugarLogger *zap.SugaredLogger
	config      config.Config
}

func main() {
	app := &cli.App{
		Name:  ServiceName,
		Usage: "append-only article credibility ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "", Usage: "yaml config file", EnvVars: []string{"TRUTHLEDGER_CONFIG"}},
			&cli.StringFlag{Name: "addr", Value: "", Usage: "api listen address", EnvVars: []string{"TRUTHLEDGER_ADDR"}},
			&cli.StringFlag{Name: "diag_addr", Value: "", Usage: "diag listen address", EnvVars: []string{"TRUTHLEDGER_DIAG_ADDR"}},
			&cli.StringFlag{Name: "owner", Value: "", Usage: "owner identity allowed to airdrop", EnvVars: []string{"TRUTHLEDGER_OWNER"}},
			&cli.StringFlag{Name: "mysql", Value: "", Usage: "event sink mysql dsn", EnvVars: []string{"TRUTHLEDGER_MYSQL"}},
			&cli.BoolFlag{Name: "routes", Usage: "generate router documentation"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		stdlog.Fatal(err)
	}
}

// nolint
func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if s := c.String("addr"); s != "" {
		cfg.Addr = s
	}
	if s := c.String("diag_addr"); s != "" {
		cfg.DiagAddr = s
	}
	if s := c.String("owner"); s != "" {
		cfg.Owner = s
	}
	if s := c.String("mysql"); s != "" {
		cfg.EventDSN = s
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	a := App{
		sugarLogger: sugar,
		config:      cfg,
	}

	promConfig := prometheus.Config{}
	cont := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(promConfig.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(promConfig, cont)
	if err != nil {
		a.sugarLogger.Panicf("failed to initialize prometheus exporter %v", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())

	meter := global.Meter(ServiceName)
	labels := []attribute.KeyValue{
		attribute.String("status", "200")}
	OpsCompletedCount := metric.Must(meter).NewInt64Counter(
		"ledger/operations/completed_count",
		metric.WithDescription("Count of completed ledger operations, by response status"),
	).Bind(labels...)
	defer OpsCompletedCount.Unbind()

	engine := ledger.New(ledger.Params{
		Owner:      model.Identity(cfg.Owner),
		EditCost:   cfg.EditCost,
		MaxAirdrop: cfg.MaxAirdrop,
	})

	if cfg.EventDSN != "" {
		wdb, err := eventdb.NewWdb(cfg.EventDSN)
		if err != nil {
			return fmt.Errorf("open event sink: %w", err)
		}
		defer wdb.Close()
		if err := wdb.Migrate(); err != nil {
			return fmt.Errorf("migrate event sink: %w", err)
		}

		flusher, err := eventdb.NewFlusher(wdb, engine, sugar)
		if err != nil {
			return fmt.Errorf("init event flusher: %w", err)
		}
		flusher.Run(time.Duration(cfg.FlushEverySec) * time.Second)
		defer flusher.Stop()
	}

	ledgerAPI := api.New(engine, sugar, api.Options{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		ListCacheTTL:   time.Duration(cfg.ListCacheTTLSec) * time.Second,
	})

	r := chi.NewRouter()

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	r.Use(middleware.RequestID)
	r.Use(a.Logger)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		logger := r.Context().Value(CtxKeyLogger).(*zap.SugaredLogger)
		logger.Infow("ping with middle")
		OpsCompletedCount.Add(r.Context(), 1)
		_, err := w.Write([]byte("pong"))
		if err != nil {
			sugar.Errorw(err.Error())
		}
	})

	r.Mount("/", ledgerAPI.Router())

	// Passing -routes to the program will generate docs for the above
	// router definition.
	if c.Bool("routes") {
		// nolint
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/truthledger/truthledger",
			Intro:       "truthledger generated docs.",
		}))

		return nil
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		sugar.Infow("api listening", "addr", cfg.Addr)
		if err := http.ListenAndServe(cfg.Addr, r); err != nil {
			a.sugarLogger.Errorw(err.Error())
		}
	}()

	go func() {
		if err := http.ListenAndServe(cfg.DiagAddr, diagRouter); err != nil {
			a.sugarLogger.Errorw(err.Error())
		}
	}()

	<-signals
	sugar.Infow("shutting down")

	return nil
}

func (a *App) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), CtxKeyLogger, a.sugarLogger)))
	})
}
