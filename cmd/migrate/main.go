// Package main provides a CLI tool for running database migrations.
package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/flatmates/marketplace/internal/config"
	"github.com/flatmates/marketplace/internal/database"
)

func main() {
	var (
		action = flag.String("action", "up", "Migration action: up, down, version")
		dir    = flag.String("dir", "migrations", "Path to the migrations directory")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	url := database.MigrationURL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	switch *action {
	case "up":
		log.Println("Running migrations...")
		if err := database.RunMigrations(url, *dir); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")

	case "down":
		log.Println("Rolling back last migration...")
		if err := database.RollbackMigrations(url, *dir); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		log.Println("Migration rolled back successfully")

	case "version":
		version, dirty, err := database.MigrationVersion(url, *dir)
		if err != nil {
			log.Fatalf("Version check failed: %v", err)
		}
		log.Printf("Current migration version: %d (dirty: %v)", version, dirty)

	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}
