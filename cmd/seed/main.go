package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"carrental/internal/auth"
	"carrental/internal/config"
	"carrental/internal/db"
	"carrental/internal/model"
	"carrental/internal/repository"
	"carrental/internal/service"
)

// SeedCarData is one entry of a car catalogue file.
type SeedCarData struct {
	Brand       string          `json:"brand"`
	Model       string          `json:"model"`
	Year        int             `json:"year"`
	PricePerDay decimal.Decimal `json:"pricePerDay"`
	Available   *bool           `json:"available"`
}

func main() {
	carsSource := flag.String("cars", "", "path or http(s) URL of a JSON car catalogue to import")
	skipAdmin := flag.Bool("skip-admin", false, "do not create the admin account")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.Options{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB, false); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	if !*skipAdmin {
		created, err := ensureAdmin(ctx, repository.NewUserRepository(gormDB), cfg)
		if err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		if created {
			log.Printf("Admin created: %s", cfg.AdminEmail)
		} else {
			log.Printf("Admin already exists: %s", cfg.AdminEmail)
		}
	}

	if *carsSource == "" {
		return
	}

	log.Printf("Loading cars from: %s", *carsSource)
	cars, err := loadCars(*carsSource)
	if err != nil {
		log.Fatalf("Failed to load cars: %v", err)
	}
	log.Printf("Loaded %d cars", len(cars))

	seeded, existing, skipped, err := seedCars(ctx, repository.NewCarRepository(gormDB), cars)
	if err != nil {
		log.Fatalf("Failed to seed cars: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New cars created: %d", seeded)
	log.Printf("  - Cars already present: %d", existing)
	log.Printf("  - Invalid entries skipped: %d", skipped)
}

// ensureAdmin creates the configured admin account unless a user with that email exists.
func ensureAdmin(ctx context.Context, repo repository.UserRepository, cfg *config.Config) (bool, error) {
	email := service.NormalizeEmail(cfg.AdminEmail)

	_, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup admin %s: %w", email, err)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	admin := &model.User{
		Name:         cfg.AdminName,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin %s: %w", email, err)
	}
	return true, nil
}

// loadCars reads a catalogue from a local file or an http(s) URL.
func loadCars(source string) ([]SeedCarData, error) {
	var body []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = fetchURL(source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	var cars []SeedCarData
	if err := json.Unmarshal(body, &cars); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return cars, nil
}

func fetchURL(url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalogue: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalogue returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// seedCars creates catalogue cars that are not stored yet, matching on brand, model and year.
func seedCars(ctx context.Context, repo repository.CarRepository, cars []SeedCarData) (seeded, existing, skipped int, err error) {
	for _, item := range cars {
		if item.Brand == "" || item.Model == "" || !item.PricePerDay.IsPositive() {
			log.Printf("Skipping invalid car entry: %q %q", item.Brand, item.Model)
			skipped++
			continue
		}

		found, err := repo.FindByBrandModelYear(ctx, item.Brand, item.Model, item.Year)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return seeded, existing, skipped, fmt.Errorf("error checking car %s %s: %w", item.Brand, item.Model, err)
		}
		if found != nil {
			existing++
			continue
		}

		car := &model.Car{
			Brand:       item.Brand,
			Model:       item.Model,
			Year:        item.Year,
			PricePerDay: item.PricePerDay,
			Available:   item.Available == nil || *item.Available,
		}
		if err := repo.Create(ctx, car); err != nil {
			return seeded, existing, skipped, fmt.Errorf("error creating car %s %s: %w", item.Brand, item.Model, err)
		}
		seeded++
	}
	return seeded, existing, skipped, nil
}
