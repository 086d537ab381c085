package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP       HTTPConfig
	Restaurant RestaurantConfig
	Storage    StorageConfig
	DB         DBConfig
	Rabbit     RabbitConfig
	Menu       MenuConfig
	SMTP       SMTPConfig
	Telegram   TelegramConfig
}

type HTTPConfig struct {
	Port           int
	AllowedOrigins []string
}

type RestaurantConfig struct {
	Name     string
	Tagline  string
	Timezone string
	// ContactMode decides which contact field order placement requires:
	// "mobile" (customer name + mobile) or "email".
	ContactMode string
}

type StorageConfig struct {
	Mode            string // postgres | memory
	OrdersSheetName string
	MaxRowsPerSheet int
	// PersistFallback keeps accepting orders into the local backup store
	// when the sheet append fails.
	PersistFallback bool
	BackupDir       string
	// CleanupRetentionHours drops backed-up orders older than the window.
	// Zero disables the sweep entirely, keeping all order data.
	CleanupRetentionHours int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RabbitConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

type MenuConfig struct {
	SheetName   string
	SheetCSVURL string
	CacheTTL    int // seconds
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	// CustomerEnabled gates confirmation mail to the customer address.
	CustomerEnabled bool
	OwnerEmail      string
}

type TelegramConfig struct {
	Token       string
	OwnerChatID int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		HTTP: HTTPConfig{
			Port:           getEnvInt("PORT", 5000),
			AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "*")),
		},
		Restaurant: RestaurantConfig{
			Name:        getEnv("RESTAURANT_NAME", "Our Restaurant"),
			Tagline:     getEnv("RESTAURANT_TAGLINE", "Delicious Food, Great Service"),
			Timezone:    getEnv("RESTAURANT_TIMEZONE", "Asia/Kolkata"),
			ContactMode: getEnv("CONTACT_MODE", "mobile"),
		},
		Storage: StorageConfig{
			Mode:                  getEnv("STORAGE_MODE", "memory"),
			OrdersSheetName:       getEnv("ORDERS_SHEET_NAME", "Orders"),
			MaxRowsPerSheet:       getEnvInt("MAX_ROWS_PER_SHEET", 10000),
			PersistFallback:       getEnvBool("PERSIST_FALLBACK", true),
			BackupDir:             getEnv("BACKUP_DIR", "data/orders-backup"),
			CleanupRetentionHours: getEnvInt("CLEANUP_RETENTION_HOURS", 0),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "tableserve"),
		},
		Rabbit: RabbitConfig{
			Host:     getEnv("RABBIT_HOST", "localhost"),
			Port:     getEnvInt("RABBIT_PORT", 5672),
			User:     getEnv("RABBIT_USER", "guest"),
			Password: getEnv("RABBIT_PASSWORD", "guest"),
		},
		Menu: MenuConfig{
			SheetName:   getEnv("MENU_SHEET_NAME", "menu1"),
			SheetCSVURL: getEnv("MENU_SHEET_URL", ""),
			CacheTTL:    getEnvInt("MENU_CACHE_TTL", 300),
		},
		SMTP: SMTPConfig{
			Host:            getEnv("SMTP_HOST", ""),
			Port:            getEnvInt("SMTP_PORT", 587),
			User:            getEnv("EMAIL_USER", ""),
			Password:        getEnv("EMAIL_PASSWORD", ""),
			From:            getEnv("EMAIL_FROM", ""),
			CustomerEnabled: getEnvBool("CUSTOMER_EMAIL_ENABLED", true),
			OwnerEmail:      getEnv("OWNER_EMAIL", ""),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("TELEGRAM_TOKEN", ""),
			OwnerChatID: getEnvInt64("TELEGRAM_OWNER_CHAT_ID", 0),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
