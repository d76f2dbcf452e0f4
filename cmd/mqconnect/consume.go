package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/miladsoleymani/mqconnect/broker"
	"github.com/miladsoleymani/mqconnect/config"
	"github.com/miladsoleymani/mqconnect/core"
	"github.com/miladsoleymani/mqconnect/core/middleware"
	"github.com/miladsoleymani/mqconnect/logger"
)

func newConsumeCmd() *cobra.Command {
	var (
		service     string
		metricsAddr string
		traceStdout bool
	)
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Consume from the configured destination and log each delivery",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if err := s.initLogger(); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return consume(ctx, s, consumeOptions{
				service:     service,
				metricsAddr: metricsAddr,
				traceStdout: traceStdout,
			})
		},
	}
	cmd.Flags().StringVar(&service, "service", "mqconnect", "Service name used in logs, metrics and spans")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().BoolVar(&traceStdout, "trace-stdout", false, "Export consumer spans to stderr")
	return cmd
}

type consumeOptions struct {
	service     string
	metricsAddr string
	traceStdout bool
}

func consume(ctx context.Context, s settings, o consumeOptions) error {
	log := logger.Named("consume")

	p, err := s.properties()
	if err != nil {
		return err
	}
	if strings.TrimSpace(p[config.InternalDestination]) == "" {
		return fmt.Errorf("%s is not set", config.KeyDestination)
	}
	b, cfg, err := broker.Open(p)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := middleware.NewPrometheusCollector(reg)
	if err != nil {
		_ = b.Close()
		return err
	}
	if o.metricsAddr != "" {
		srv := serveMetrics(o.metricsAddr, reg, log)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	tp, err := newTracerProvider(o.traceStdout)
	if err != nil {
		_ = b.Close()
		return err
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	r := core.New(b)
	r.SetLogger(logger.Named("router"))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(collector))
	r.Use(middleware.Tracing(tp.Tracer("mqconnect")))

	svc := core.NewService(o.service, cfg.Topic, logDelivery(log)).
		WithConsumers(cfg.ConcurrentConsumers)
	if err := r.Register(svc); err != nil {
		_ = b.Close()
		return err
	}

	log.Info("starting consumer",
		zap.String("service", o.service),
		zap.String("destination", cfg.Topic),
		zap.Strings("brokers", cfg.Brokers),
		zap.Int("consumers", cfg.ConcurrentConsumers),
	)
	return r.Start(ctx)
}

// logDelivery logs the message headers and acknowledges it.
func logDelivery(log *zap.Logger) core.HandlerFunc {
	return func(c core.Context) error {
		h := c.Handle()
		id, err := h.MessageID()
		if err != nil {
			return err
		}
		redelivered, err := h.Redelivered()
		if err != nil {
			return err
		}
		log.Info("message received",
			zap.String("destination", c.Destination()),
			zap.String("message_id", id),
			zap.Bool("redelivered", redelivered),
			zap.Int("bytes", len(c.Value())),
			zap.Any("headers", c.Headers()),
		)
		return c.Ack()
	}
}

func newTracerProvider(stdout bool) (*sdktrace.TracerProvider, error) {
	if !stdout {
		return sdktrace.NewTracerProvider(), nil
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter)), nil
}

func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", zap.Error(err))
		}
	}()
	return srv
}
