package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boothvoice/internal/bot"
	"boothvoice/internal/db"
	"boothvoice/internal/media"
	"boothvoice/internal/server"
	"boothvoice/internal/session"
	"boothvoice/internal/store"
	"boothvoice/internal/whatsapp"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the webhook and dashboard HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %s: %w", config.Timezone, err)
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	voterRepo := store.NewVoterRepository(pool)
	grievanceRepo := store.NewGrievanceRepository(pool)
	memberRepo := store.NewMemberRequestRepository(pool)
	pulseRepo := store.NewPulseRepository(pool)

	var sessions session.Store
	if config.RedisAddr != "" {
		redisStore, err := session.NewRedisStore(ctx, config)
		if err != nil {
			return err
		}
		defer redisStore.Close()
		sessions = redisStore
		logger.WithField("addr", config.RedisAddr).Info("sessions backed by redis")
	} else {
		sessions = session.NewMemoryStore()
		logger.Info("sessions held in process memory")
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}
	s3Client := s3.NewFromConfig(awsConfig)

	engine := bot.New(
		logger,
		config.Profile,
		loc,
		sessions,
		voterRepo,
		grievanceRepo,
		memberRepo,
		pulseRepo,
	)

	sender := whatsapp.NewSender(logger, config)
	archiver := media.NewArchiver(logger, s3Client, config)

	srv := server.New(
		config,
		logger,
		engine,
		sender,
		archiver,
		voterRepo,
		grievanceRepo,
		memberRepo,
	)

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
