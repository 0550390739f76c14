package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"sitereport/internal/config"
	"sitereport/internal/project"
	"sitereport/internal/server"
	"sitereport/internal/service"
	"sitereport/internal/storage"
	"sitereport/internal/store"
	"sitereport/internal/util"
)

var (
	port      = flag.Int("port", 0, "server port (config.toml wins when it sets one explicitly)")
	devMode   = flag.Bool("dev", false, "development mode")
	dataDir   = flag.String("dataDir", "", "data directory (overrides config file)")
	layoutDir = flag.String("layoutDir", "", "project layout directory (overrides config file)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Site Report - Milestone Progress Reports")
	fmt.Println("==========================================")

	// COS credentials live in .env for local runs.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *layoutDir != "" {
		cfg.Data.LayoutDir = *layoutDir
	}

	resolvedDataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	fmt.Printf("Data directory: %s\n", resolvedDataDir)

	layouts, err := project.LoadDir(cfg.Data.LayoutDir)
	if err != nil {
		log.Fatalf("failed to load project layouts: %v", err)
	}
	fmt.Printf("Projects: %v\n", layouts.Names())

	fetcher, err := newFetcher(cfg)
	if err != nil {
		log.Fatalf("failed to set up workbook storage: %v", err)
	}

	st, err := store.New(filepath.Join(resolvedDataDir, "sitereport.db"))
	if err != nil {
		log.Fatalf("failed to open run database: %v", err)
	}
	defer st.Close()

	runner := service.NewRunner(fetcher, layouts, st, filepath.Join(resolvedDataDir, "exports"))
	srv := server.NewServer(runner, cfg.Server.DevMode)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("Listening on port %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("Opening browser: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("Could not open a browser, visit %s manually\n", url)
		}
	} else {
		fmt.Printf("Dev mode: visit %s\n", url)
	}

	fmt.Println("\nPress Ctrl+C to stop...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
}

// newFetcher picks local-directory storage when configured, COS otherwise.
func newFetcher(cfg *config.AppConfig) (storage.Fetcher, error) {
	if cfg.Storage.LocalDir != "" {
		fmt.Printf("Workbook source: local directory %s\n", cfg.Storage.LocalDir)
		return storage.LocalDir{Root: cfg.Storage.LocalDir}, nil
	}
	cos := storage.COSConfigFromEnv()
	fmt.Printf("Workbook source: bucket %s at %s\n", cos.Bucket, cos.Endpoint)
	return storage.NewCOSClient(cos)
}
