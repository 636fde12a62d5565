package main

import (
	"context"
	"log"

	"dermoscan-be/internal/bootstrap"
	"dermoscan-be/internal/config"
	"dermoscan-be/internal/server"
	"dermoscan-be/internal/tracer"
)

func main() {
	// 1. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Configuration
	cfg := config.Load()

	// 3. Bootstrap dependencies
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	// 4. Background refresher consuming the workflow signals
	if err := container.Refresher.Run(context.Background()); err != nil {
		log.Fatalf("Failed to start refresher: %v", err)
	}

	// 5. Serve
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
