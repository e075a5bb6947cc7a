package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"FinAdvisor/internal/di"
	"FinAdvisor/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	flag.Parse()

	// Secrets come from the environment; .env is a local convenience
	_ = godotenv.Load()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s port=%d", cfg.Environment, cfg.Server.Port)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
