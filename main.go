package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stance-data/balance.report/internal/api"
	"github.com/stance-data/balance.report/internal/config"
	"github.com/stance-data/balance.report/internal/db"
	"github.com/stance-data/balance.report/internal/monitoring"
	"github.com/stance-data/balance.report/internal/version"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	dbFile      = flag.String("db", "balance_data.db", "Path to the assessment database (empty to disable persistence)")
	configFile  = flag.String("config", "", "Path to a tuning config JSON file (empty for built-in defaults)")
	rateLimit   = flag.Int("rate-limit", 60, "Max requests per client per minute (0 to disable)")
	verbose     = flag.Bool("verbose", false, "Enable per-frame debug logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("balance.report", version.String())
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	monitoring.SetVerbose(*verbose)

	cfg := config.EmptyTuningConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configFile)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		log.Printf("loaded tuning config from %s", *configFile)
	}

	var database *db.DB
	if *dbFile != "" {
		var err error
		database, err = db.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer database.Close()

		if v, dirty, err := database.MigrateVersion(); err == nil {
			log.Printf("database schema at version %d (dirty=%v)", v, dirty)
		}
	} else {
		log.Printf("persistence disabled; analyses will not be stored")
	}

	var counter *api.RequestCounter
	if *rateLimit > 0 {
		counter = api.NewRequestCounter(*rateLimit, time.Minute)
	}

	server := api.NewServer(cfg, database, counter)
	httpServer := &http.Server{
		Addr:    *listen,
		Handler: server.Routes(),
	}

	go func() {
		log.Printf("balance.report %s listening on %s", version.Version, *listen)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Printf("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
