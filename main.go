// @title Arsip File Archive
// @version 0.1
// @description Web file archive: upload, categorize, search, download and soft-delete files with a full activity audit trail.

// @host localhost:8080
// @BasePath /api
// @query.collection.format multi
// @schemes http

package main

import (
	"log"

	_ "go-arsip/docs"
	"go-arsip/internal/app"
	"go-arsip/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	app.Run(cfg)
}
