package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pageza/mealweek/backend/config"
	"github.com/pageza/mealweek/backend/internal/database"
	"github.com/pageza/mealweek/backend/internal/server"
	"github.com/pageza/mealweek/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// Nutrition caching and rate limiting degrade gracefully without
		// redis, so a failed connection is not fatal.
		log.Printf("WARNING: redis unavailable, caching and rate limiting disabled: %v", err)
		redisClient = nil
	}

	var images *service.ImageService
	if s3Cfg, err := config.NewS3Config(context.Background(), cfg); err != nil {
		log.Printf("WARNING: S3 unavailable, template image uploads disabled: %v", err)
	} else {
		images = service.NewImageService(s3Cfg)
	}

	srv := server.New(cfg, db, redisClient, images)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}

	log.Println("Server exited")
}
