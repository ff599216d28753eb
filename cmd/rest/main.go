package main

import (
	"context"
	"log"

	"github.com/404-t/lotobot-backend/internal/bootstrap"
	"github.com/404-t/lotobot-backend/internal/config"
	"github.com/404-t/lotobot-backend/internal/server"
	"github.com/404-t/lotobot-backend/internal/tracer"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Close()

	// 3. Warm the catalog index in the background. Failures are tolerated:
	// the first query re-triggers ingestion lazily.
	go func() {
		log.Println("Background: warming catalog index...")
		container.Agent.RefreshCatalog(context.Background(), false)
		log.Printf("Background: catalog index ready (%d records)", container.Agent.IndexLen())
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
