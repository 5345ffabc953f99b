// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command itaband runs the board engine: an HTTP server speaking the
// legacy client/server wire protocol, plus a separate Prometheus
// metrics server.
package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dobashi/itaban/internal/api"
	"github.com/dobashi/itaban/internal/bbs"
	"github.com/dobashi/itaban/internal/config"
	"github.com/dobashi/itaban/internal/metrics"
	"github.com/dobashi/itaban/internal/middleware"
	"github.com/dobashi/itaban/internal/session"
	"github.com/dobashi/itaban/internal/taskmanager"
	"github.com/dobashi/itaban/pkg/log"
)

func main() {
	var flagConfigFile string
	var flagLogLevel string
	var flagLogDate bool
	flag.StringVar(&flagConfigFile, "config", "./config.json", "Path to the JSON config file")
	flag.StringVar(&flagLogLevel, "loglevel", "", "Overwrite the configured log level")
	flag.BoolVar(&flagLogDate, "logdate", false, "Force timestamps on log lines")
	flag.Parse()

	keys, err := config.Load(flagConfigFile)
	if err != nil {
		log.Fatal(err)
	}
	if flagLogLevel != "" {
		keys.LogLevel = flagLogLevel
	}
	if flagLogDate {
		keys.LogDate = true
	}
	log.SetLogLevel(keys.LogLevel)
	log.SetLogDateTime(keys.LogDate)

	registry, err := bbs.WithWorkspace(keys.Workspace)
	if err != nil {
		log.Fatalf("loading workspace %q: %v", keys.Workspace, err)
	}
	log.Infof("loaded %d board(s) from %q", len(registry.Boards()), keys.Workspace)

	sessions := session.New()
	pipeline := middleware.NewPipeline()
	pipeline.Attach(middleware.NewJST())
	pipeline.Attach(middleware.Cap{})
	pipeline.Attach(middleware.NewId(sessions))

	reg := prometheus.NewRegistry()
	met := metrics.New(reg)
	met.RefreshBoardGauges(registry)

	readHTML := []byte("<!doctype html><title>read.cgi test page</title>")
	a := api.New(registry, pipeline, met, readHTML)

	tasks, err := taskmanager.New()
	if err != nil {
		log.Fatal(err)
	}
	if err := tasks.RegisterMetricsRefresh(registry, met, time.Duration(keys.MetricsIntervalSeconds)*time.Second); err != nil {
		log.Fatal(err)
	}
	tasks.Start()

	router := a.Router()
	router.Use(handlers.CompressHandler)
	router.Use(handlers.RecoveryHandler(handlers.PrintRecoveryStack(true)))
	router.Use(handlers.CORS(
		handlers.AllowCredentials(),
		handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization", "Origin"}),
		handlers.AllowedMethods([]string{"GET", "POST", "HEAD", "OPTIONS"}),
		handlers.AllowedOrigins([]string{"*"}),
	))
	handler := handlers.CustomLoggingHandler(io.Discard, router, func(_ io.Writer, params handlers.LogFormatterParams) {
		log.Finfof(log.InfoWriter, "%s %s (%d, %dms)",
			params.Request.Method, params.URL.RequestURI(), params.StatusCode,
			time.Since(params.TimeStamp).Milliseconds())
	})

	server := &http.Server{
		Addr:         keys.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	var metricsServer *http.Server
	if keys.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: keys.MetricsAddr, Handler: mux}
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("HTTP server listening at %s", keys.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	if metricsServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Infof("metrics server listening at %s", keys.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal(err)
			}
		}()
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.Shutdown(ctx)
	if metricsServer != nil {
		metricsServer.Shutdown(ctx)
	}
	if err := tasks.Shutdown(); err != nil {
		log.Errorf("shutting down task manager: %v", err)
	}

	wg.Wait()
	log.Info("graceful shutdown completed")
}
