package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/closetly/wardrobe-backend/config"
	"github.com/closetly/wardrobe-backend/internal/app/repository"
	"github.com/closetly/wardrobe-backend/internal/db"
	"github.com/closetly/wardrobe-backend/internal/sheet"
)

func main() {
	batchSize := flag.Int("batch", 500, "rows inserted per batch")
	assumeYes := flag.Bool("y", false, "skip the confirmation prompt")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: seed [-batch N] [-y] <xlsx_file_path>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := validateBatchSize(*batchSize); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	database, err := db.Open(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(database)

	if err := db.Migrate(database); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	itemRepo := repository.NewItemRepository(database)

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open file:", err)
	}
	result, err := sheet.ReadItems(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	for _, skipped := range result.Skipped {
		fmt.Printf("Skipped %s\n", skipped.Error())
	}
	fmt.Printf("Valid items: %d, skipped rows: %d\n", len(result.Items), len(result.Skipped))

	if len(result.Items) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	if !*assumeYes && !confirm("Do you want to proceed with the import? (yes/no): ") {
		fmt.Println("Import cancelled.")
		return
	}

	fmt.Printf("Starting bulk import with batch size: %d\n", *batchSize)
	if err := itemRepo.CreateInBatches(result.Items, *batchSize); err != nil {
		log.Fatal("Failed to import items:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total items imported: %d\n", len(result.Items))
}

func validateBatchSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("-batch must be a positive number, got %d", n)
	}
	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}
