package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Media    MediaConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Path string
}

// MediaConfig controls where profile photos are kept and how their URLs are built
type MediaConfig struct {
	BucketDir     string
	BaseURL       string
	MaxPhotoBytes int64
	// SweepMinutes is the orphaned photo sweep interval; 0 disables the sweeper
	SweepMinutes int
}

type LogConfig struct {
	Level string
}

// Load loads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./familytree.db"),
		},
		Media: MediaConfig{
			BucketDir:     getEnv("MEDIA_BUCKET_URL", "./media"),
			BaseURL:       getEnv("MEDIA_BASE_URL", "/media/"),
			MaxPhotoBytes: int64(getEnvAsInt("MAX_PHOTO_BYTES", 5<<20)),
			SweepMinutes:  getEnvAsInt("PHOTO_SWEEP_MINUTES", 60),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
