package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ikkim/catalog-backend/config"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/internal/app/service"
	"github.com/ikkim/catalog-backend/internal/db"
	"github.com/ikkim/catalog-backend/internal/importer"
	"github.com/ikkim/catalog-backend/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/import/main.go <xlsx_file_path>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.ConfigForEnvironment(cfg.Server.Environment))

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer file.Close()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := importer.ReadRows(file)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Total rows to import: %d\n", len(rows))

	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productService := service.NewProductService(repository.NewProductRepository(db.GetDB()), categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)

	report := importer.New(productService, categoryService).Run(rows)
	for _, line := range report.Summary() {
		fmt.Println(line)
	}

	if report.Rejected > 0 {
		os.Exit(1)
	}
}
