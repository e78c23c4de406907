package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Thomas-lee31/Bucky-s-Menu/models"
)

type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string

	AWSRegion string
	SESFrom   string
	S3Bucket  string

	MenuAPIBaseURL  string
	IngestDaysAhead int

	AdminToken string

	// Cron expressions; empty disables the schedule.
	IngestSchedule string
	NotifySchedule string
}

// Load reads configuration from the environment. A .env file is loaded
// when present so local runs work the same as deployed ones.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getenv("PORT", "3000"),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getenv("DB_PORT", "5432"),

		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:   os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),

		AWSRegion: getenv("AWS_REGION", "us-east-2"),
		SESFrom:   getenv("SES_EMAIL", "noreply@buckys-menu.com"),
		S3Bucket:  os.Getenv("S3_BUCKET"),

		MenuAPIBaseURL:  getenv("MENU_API_BASE_URL", "https://wisc-housingdining.api.nutrislice.com"),
		IngestDaysAhead: getenvInt("INGEST_DAYS_AHEAD", 4),

		AdminToken: os.Getenv("ADMIN_TOKEN"),

		IngestSchedule: getenv("INGEST_SCHEDULE", "0 6 * * *"),
		NotifySchedule: getenv("NOTIFY_SCHEDULE", "30 6 * * *"),
	}
}

// InitDB opens the Postgres connection and migrates the schema. The
// handle is returned to the caller rather than stored in a package
// global so components receive it as an explicit dependency.
func InitDB(cfg Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.MenuItem{},
		&models.UserSettings{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	return db, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
