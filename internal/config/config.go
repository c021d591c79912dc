// backend-go/internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Cache    CacheConfig
	Archive  ArchiveConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	UploadDir string
}

type CacheConfig struct {
	Enabled         bool
	RedisURL        string
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisDB         int
	StatsTTLSeconds int
}

// ArchiveConfig points at the S3-compatible bucket where successfully
// ingested workbooks are kept.
type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type AuthConfig struct {
	AdminUser     string
	AdminPassword string
	Token         string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "bayidash")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_STATS_TTL_SECONDS", 60)
		viper.SetDefault("ARCHIVE_ENABLED", false)
		viper.SetDefault("ARCHIVE_ENDPOINT", "")
		viper.SetDefault("ARCHIVE_ACCESS_KEY", "")
		viper.SetDefault("ARCHIVE_SECRET_KEY", "")
		viper.SetDefault("ARCHIVE_BUCKET", "bayidash-uploads")
		viper.SetDefault("ARCHIVE_USE_SSL", true)
		viper.SetDefault("AUTH_ADMIN_USER", "admin")
		viper.SetDefault("AUTH_ADMIN_PASSWORD", "admin123")
		viper.SetDefault("AUTH_TOKEN", "admin-token-123")

		// Read from environment variables
		viper.AutomaticEnv()

		ensureDir(viper.GetString("APP_UPLOAD_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			App: AppConfig{
				UploadDir: viper.GetString("APP_UPLOAD_DIR"),
			},
			Cache: CacheConfig{
				Enabled:         viper.GetBool("CACHE_ENABLED"),
				RedisURL:        viper.GetString("REDIS_URL"),
				RedisHost:       viper.GetString("REDIS_HOST"),
				RedisPort:       viper.GetString("REDIS_PORT"),
				RedisPassword:   viper.GetString("REDIS_PASSWORD"),
				RedisDB:         viper.GetInt("REDIS_DB"),
				StatsTTLSeconds: viper.GetInt("CACHE_STATS_TTL_SECONDS"),
			},
			Archive: ArchiveConfig{
				Enabled:   viper.GetBool("ARCHIVE_ENABLED"),
				Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
				AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
				SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
				Bucket:    viper.GetString("ARCHIVE_BUCKET"),
				UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
			},
			Auth: AuthConfig{
				AdminUser:     viper.GetString("AUTH_ADMIN_USER"),
				AdminPassword: viper.GetString("AUTH_ADMIN_PASSWORD"),
				Token:         viper.GetString("AUTH_TOKEN"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
