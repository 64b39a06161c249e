package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"giggen/auth"
	"giggen/band"
	"giggen/booking"
	"giggen/concept"
	"giggen/config"
	"giggen/db"
	"giggen/event"
	"giggen/filebank"
	"giggen/httpapi"
	"giggen/logger"
	"giggen/outbox"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "giggen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	log := logger.New(logger.INFO)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, db.Config{
		URL:             cfg.Database.URL,
		MaxConns:        int32(cfg.Database.MaxConns),
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	log.Info("main", "database pool ready")

	var publisher outbox.Publisher
	if cfg.AMQP.URL != "" {
		publisher, err = outbox.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("connect amqp: %w", err)
		}
		log.Infof("main", "publishing events to exchange %s", cfg.AMQP.Exchange)
	} else {
		publisher = outbox.NewLogPublisher(log)
		log.Warn("main", "AMQP_URL not set, events go to the log only")
	}
	defer publisher.Close()

	bookingRepo := booking.NewRepository(pool)

	server := httpapi.NewServer(httpapi.Deps{
		Log:       log,
		Auth:      auth.NewService(auth.NewRepository(pool), cfg.Auth.JWTSecret),
		Bookings:  booking.NewService(pool, bookingRepo),
		Approvals: booking.NewApprovalService(pool, bookingRepo),
		Reviews:   bookingRepo,
		Concepts:  concept.NewService(concept.NewRepository(pool)),
		Events:    event.NewService(event.NewRepository(pool)),
		Bands:     band.NewService(band.NewRepository(pool)),
		Files:     filebank.NewService(filebank.NewRepository(pool)),
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	dispatcher := outbox.NewDispatcher(outbox.NewPGStore(pool), publisher, log, cfg.Outbox.Interval, cfg.Outbox.BatchSize)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("main", "http server listening on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := dispatcher.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("outbox dispatcher: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("main", "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
