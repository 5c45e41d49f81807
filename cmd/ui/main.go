package main

import (
	"context"
	"log"

	"gocompare/adapters/excel"
	"gocompare/internal/config"
	"gocompare/internal/container"
	"gocompare/ui"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.InitWithDatabase(ctx); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Seed the store so the index page has a run to show.
	if cfg.Data.InputFile != "" {
		result, err := c.Service.Execute(ctx, excel.NewDataReader(cfg.Data.InputFile), c.Repository)
		if err != nil {
			log.Fatalf("Failed to compare %s: %v", cfg.Data.InputFile, err)
		}
		log.Printf("Loaded run %s from %s", result.Manifest.RunID, cfg.Data.InputFile)
	} else if !cfg.Database.Enabled() {
		log.Println("Neither INPUT_FILE nor DATABASE_URL is set; the UI will have no runs to show")
	}

	app, err := ui.NewApp(ui.Config{Port: cfg.Server.Port}, c.Repository)
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	log.Printf("Starting gocompare UI on http://localhost:%s", cfg.Server.Port)
	log.Fatal(app.Start())
}
