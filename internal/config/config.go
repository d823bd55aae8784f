package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageBackendMemory   = "memory"
	StorageBackendFile     = "file"
	StorageBackendPostgres = "postgres"
)

type Config struct {
	HTTPPort       string
	AllowedOrigins []string
	LogLevel       string

	StorageBackend string
	DataFile       string

	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	ImportRecompute bool

	MongoURI     string
	MongoDB      string
	SyncKey      string
	SyncDebounce time.Duration

	BackupSchedule   string
	BackupDir        string
	ReminderSchedule string
	OverdueDays      int

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioPhoneNumber    string
	TwilioWhatsAppNumber string
}

func ProcessEnvironmentVariables() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		HTTPPort:         "9446",
		LogLevel:         "info",
		StorageBackend:   StorageBackendFile,
		DataFile:         "data/ledger.json",
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		ImportRecompute:  true,
		MongoDB:          "udhaar",
		SyncKey:          "default",
		SyncDebounce:     2 * time.Second,
		BackupDir:        "backups",
		OverdueDays:      30,
	}

	env.HTTPPort = stringOrDefault("HTTP_PORT", env.HTTPPort)
	env.LogLevel = stringOrDefault("LOG_LEVEL", env.LogLevel)
	env.StorageBackend = strings.ToLower(stringOrDefault("STORAGE_BACKEND", env.StorageBackend))
	env.DataFile = stringOrDefault("DATA_FILE", env.DataFile)
	env.PostgresAddress = stringOrDefault("POSTGRES_ADDRESS", env.PostgresAddress)
	env.PostgresPort = stringOrDefault("POSTGRES_PORT", env.PostgresPort)
	env.PostgresDB = stringOrDefault("POSTGRES_DB", env.PostgresDB)
	env.PostgresUsername = stringOrDefault("POSTGRES_USERNAME", env.PostgresUsername)
	env.PostgresPassword = stringOrDefault("POSTGRES_PASSWORD", env.PostgresPassword)
	env.MongoURI = stringOrDefault("MONGO_URI", env.MongoURI)
	env.MongoDB = stringOrDefault("MONGO_DB", env.MongoDB)
	env.SyncKey = stringOrDefault("SYNC_KEY", env.SyncKey)
	env.BackupSchedule = stringOrDefault("BACKUP_SCHEDULE", env.BackupSchedule)
	env.BackupDir = stringOrDefault("BACKUP_DIR", env.BackupDir)
	env.ReminderSchedule = stringOrDefault("REMINDER_SCHEDULE", env.ReminderSchedule)
	env.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	env.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	env.TwilioPhoneNumber = os.Getenv("TWILIO_PHONE_NUMBER")
	env.TwilioWhatsAppNumber = os.Getenv("TWILIO_WHATSAPP_NUMBER")

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				env.AllowedOrigins = append(env.AllowedOrigins, trimmed)
			}
		}
	}

	var err error
	if env.OverdueDays, err = intOrDefault("OVERDUE_DAYS", env.OverdueDays); err != nil {
		return nil, err
	}
	if env.ImportRecompute, err = boolOrDefault("IMPORT_RECOMPUTE", env.ImportRecompute); err != nil {
		return nil, err
	}
	if env.SyncDebounce, err = durationOrDefault("SYNC_DEBOUNCE", env.SyncDebounce); err != nil {
		return nil, err
	}

	switch env.StorageBackend {
	case StorageBackendMemory, StorageBackendFile, StorageBackendPostgres:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q", env.StorageBackend)
	}

	return &env, nil
}

// PostgresConnectionString builds the lib/pq URL for the configured database.
func (c *Config) PostgresConnectionString() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

// TwilioEnabled reports whether reminder delivery credentials are present.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}

func stringOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intOrDefault(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return parsed, nil
}

func boolOrDefault(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return parsed, nil
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return parsed, nil
}
