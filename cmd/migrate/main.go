package main

import (
	"log"
	"os"

	"ai-concierge-be/internal/model"
	"ai-concierge-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions (AutoMigrate does not manage these)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate Models
	log.Println("Step 2: Running AutoMigrate...")

	if err := db.AutoMigrate(&model.KnowledgeDocument{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
