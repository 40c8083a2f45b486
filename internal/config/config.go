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
	App      AppConfig
	Analysis AnalysisConfig
	Workbook WorkbookConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Drive    DriveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
	MaxUploadMB    int64
}

type AppConfig struct {
	DataDir  string
	LogLevel string
}

// AnalysisConfig holds the thresholds of the ABC replenishment analysis.
type AnalysisConfig struct {
	RatioThreshold float64
	TierAThreshold float64
	TierBThreshold float64
	YearFrom       int
	YearTo         int
}

// Years returns the fiscal years reported per material, oldest first.
func (c AnalysisConfig) Years() []int {
	if c.YearTo < c.YearFrom {
		return nil
	}
	years := make([]int, 0, c.YearTo-c.YearFrom+1)
	for y := c.YearFrom; y <= c.YearTo; y++ {
		years = append(years, y)
	}
	return years
}

// WorkbookConfig names the sheets holding the master, movement and request tables.
type WorkbookConfig struct {
	MasterSheet    string
	MovementsSheet string
	RequestsSheet  string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ResultTTLSeconds int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Prefix    string
}

// Enabled reports whether exports should be uploaded to object storage.
func (c StorageConfig) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

type DriveConfig struct {
	CredentialsFile string
	FolderID        string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults()

		// Read from environment variables
		viper.AutomaticEnv()

		ensureDir(viper.GetString("APP_DATA_DIR"))

		instance = read()
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("SERVER_MAX_UPLOAD_MB", 64)
	viper.SetDefault("APP_DATA_DIR", "./data/output")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ANALYSIS_RATIO_THRESHOLD", 10.0)
	viper.SetDefault("ANALYSIS_TIER_A_THRESHOLD", 80.0)
	viper.SetDefault("ANALYSIS_TIER_B_THRESHOLD", 95.0)
	viper.SetDefault("ANALYSIS_YEAR_FROM", 2022)
	viper.SetDefault("ANALYSIS_YEAR_TO", 2026)
	viper.SetDefault("WORKBOOK_MASTER_SHEET", "ZMM009")
	viper.SetDefault("WORKBOOK_MOVEMENTS_SHEET", "MB51")
	viper.SetDefault("WORKBOOK_REQUESTS_SHEET", "SC")
	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_RESULT_TTL_SECONDS", 600)
	viper.SetDefault("STORAGE_ENDPOINT", "")
	viper.SetDefault("STORAGE_BUCKET", "")
	viper.SetDefault("STORAGE_REGION", "us-east-1")
	viper.SetDefault("STORAGE_USE_SSL", true)
	viper.SetDefault("STORAGE_PREFIX", "exports")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	viper.SetDefault("GOOGLE_DRIVE_FOLDER_ID", "")
}

func read() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Mode:           viper.GetString("SERVER_MODE"),
			ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			MaxUploadMB:    viper.GetInt64("SERVER_MAX_UPLOAD_MB"),
		},
		App: AppConfig{
			DataDir:  viper.GetString("APP_DATA_DIR"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Analysis: AnalysisConfig{
			RatioThreshold: viper.GetFloat64("ANALYSIS_RATIO_THRESHOLD"),
			TierAThreshold: viper.GetFloat64("ANALYSIS_TIER_A_THRESHOLD"),
			TierBThreshold: viper.GetFloat64("ANALYSIS_TIER_B_THRESHOLD"),
			YearFrom:       viper.GetInt("ANALYSIS_YEAR_FROM"),
			YearTo:         viper.GetInt("ANALYSIS_YEAR_TO"),
		},
		Workbook: WorkbookConfig{
			MasterSheet:    viper.GetString("WORKBOOK_MASTER_SHEET"),
			MovementsSheet: viper.GetString("WORKBOOK_MOVEMENTS_SHEET"),
			RequestsSheet:  viper.GetString("WORKBOOK_REQUESTS_SHEET"),
		},
		Cache: CacheConfig{
			Enabled:          viper.GetBool("CACHE_ENABLED"),
			RedisURL:         viper.GetString("REDIS_URL"),
			RedisHost:        viper.GetString("REDIS_HOST"),
			RedisPort:        viper.GetString("REDIS_PORT"),
			RedisPassword:    viper.GetString("REDIS_PASSWORD"),
			RedisDB:          viper.GetInt("REDIS_DB"),
			ResultTTLSeconds: viper.GetInt("CACHE_RESULT_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
			AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
			Bucket:    viper.GetString("STORAGE_BUCKET"),
			Region:    viper.GetString("STORAGE_REGION"),
			UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			Prefix:    viper.GetString("STORAGE_PREFIX"),
		},
		Drive: DriveConfig{
			CredentialsFile: viper.GetString("GOOGLE_CREDENTIALS_FILE"),
			FolderID:        viper.GetString("GOOGLE_DRIVE_FOLDER_ID"),
		},
	}
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
