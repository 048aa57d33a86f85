package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sheetxml/internal/config"
	"sheetxml/internal/deployment"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration
type Config struct {
	CredentialsFile string
	DriveFolderID   string
	DeployURL       string
	DeployKeyFile   string
	Resilience      config.ResilienceConfig
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// report on the .env file only once logging is configured
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	credentialsFile := os.Getenv("GOOGLE_CREDENTIALS_FILE")
	if credentialsFile == "" {
		credentialsFile = "credentials.json"
	}

	deployKeyFile := os.Getenv("DEPLOY_KEY_FILE")
	if deployKeyFile == "" {
		deployKeyFile = deployment.DefaultKeyFile
	}

	resilience := config.DefaultResilienceConfig
	if raw := os.Getenv("SHEETS_MAX_ATTEMPTS"); raw != "" {
		attempts, err := strconv.Atoi(raw)
		if err != nil || attempts < 1 {
			return nil, fmt.Errorf("SHEETS_MAX_ATTEMPTS must be a positive integer, got %q", raw)
		}
		resilience = resilience.WithMaxAttempts(attempts)
	}
	if err := resilience.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load retry configuration: %w", err)
	}

	return &Config{
		CredentialsFile: credentialsFile,
		DriveFolderID:   os.Getenv("DRIVE_FOLDER_ID"),
		DeployURL:       os.Getenv("DEPLOY_URL"),
		DeployKeyFile:   deployKeyFile,
		Resilience:      resilience,
	}, nil
}
