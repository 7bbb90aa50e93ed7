package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yoonsu/baedalgo-backend/config"
	"github.com/yoonsu/baedalgo-backend/internal/app/model"
	"github.com/yoonsu/baedalgo-backend/internal/app/repository"
	"github.com/yoonsu/baedalgo-backend/internal/db"
)

// Imports a restaurant directory from an XLSX export. Expected columns:
//
//	0 name | 1 description | 2 owner_name | 3 email | 4 phone | 5 address
//	6 city | 7 district | 8 cuisine_types (comma separated) | 9 price_range
//	10 open_time | 11 close_time
//
// Imported rows have no operator account attached; operators claim their
// listing later through support.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	restaurantRepo := repository.NewRestaurantRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	restaurants, err := readRestaurantsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total restaurants to import: %d\n", len(restaurants))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := restaurantRepo.BulkCreate(restaurants, batchSize); err != nil {
		log.Fatal("Failed to bulk create restaurants:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total restaurants imported: %d\n", len(restaurants))
}

func readRestaurantsFromXLSX(filePath string) ([]model.Restaurant, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var restaurants []model.Restaurant
	seen := make(map[string]bool)
	slugCounter := make(map[string]int)
	skippedCount := 0

	for i, row := range rows {
		// header row
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 7 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(cell(row, 0))
		description := strings.TrimSpace(cell(row, 1))
		ownerName := strings.TrimSpace(cell(row, 2))
		email := strings.TrimSpace(cell(row, 3))
		phone := strings.TrimSpace(cell(row, 4))
		address := strings.TrimSpace(cell(row, 5))
		city := strings.TrimSpace(cell(row, 6))
		district := strings.TrimSpace(cell(row, 7))
		cuisineRaw := strings.TrimSpace(cell(row, 8))
		priceRange := strings.TrimSpace(cell(row, 9))
		openTime := strings.TrimSpace(cell(row, 10))
		closeTime := strings.TrimSpace(cell(row, 11))

		if name == "" || city == "" || address == "" {
			skippedCount++
			continue
		}

		// duplicate check across name, city and address
		key := fmt.Sprintf("%s|%s|%s", name, city, address)
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		// slugs are pre-generated so batch inserts stay unique
		baseSlug := generateSlug(city, name)
		slug := baseSlug
		if count, exists := slugCounter[baseSlug]; exists {
			slugCounter[baseSlug] = count + 1
			slug = fmt.Sprintf("%s-%d", baseSlug, count+1)
		} else {
			slugCounter[baseSlug] = 1
		}

		var cuisineTypes model.StringArray
		if cuisineRaw != "" {
			for _, cuisine := range strings.Split(cuisineRaw, ",") {
				if trimmed := strings.TrimSpace(cuisine); trimmed != "" {
					cuisineTypes = append(cuisineTypes, strings.ToLower(trimmed))
				}
			}
		}

		restaurants = append(restaurants, model.Restaurant{
			Name:               name,
			Slug:               slug,
			Description:        description,
			OwnerName:          ownerName,
			Email:              email,
			PhoneNumber:        phone,
			Address:            address,
			City:               city,
			District:           district,
			CuisineTypes:       cuisineTypes,
			PriceRange:         priceRange,
			OpenTime:           openTime,
			CloseTime:          closeTime,
			Status:             model.RestaurantStatusInactive,
			VerificationStatus: model.VerificationStatusPending,
		})
	}

	fmt.Printf("Skipped rows: %d\n", skippedCount)
	return restaurants, nil
}

// cell returns the column value or "" when the row is short
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func generateSlug(city, name string) string {
	slug := fmt.Sprintf("%s-%s", city, name)

	reg := regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	slug = reg.ReplaceAllString(slug, "-")

	reg = regexp.MustCompile(`-+`)
	slug = reg.ReplaceAllString(slug, "-")

	slug = strings.Trim(slug, "-")
	slug = strings.ToLower(slug)

	return slug
}
