package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
	Analytics Analytics `mapstructure:",squash"`
	Warmup    Warmup    `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN          string `mapstructure:"-"`
	Driver       string `mapstructure:"database_driver"`
	Password     string `mapstructure:"database_password"`
	URL          string `mapstructure:"database_url"`
	User         string `mapstructure:"database_user"`
	MaxOpenConns int    `mapstructure:"database_max_open_conns"`
	MaxIdleConns int    `mapstructure:"database_max_idle_conns"`
}

type Auth struct {
	// Secret verifying the bearer tokens issued by the platform auth service.
	JWTSecret string `mapstructure:"auth_jwt_secret"`
	// Bcrypt hash of the shared key internal services present when calling
	// the cache invalidation endpoint.
	ServiceKeyHash string `mapstructure:"auth_service_key_hash"`
}

type Analytics struct {
	// TTL of cached fast-level dashboard documents.
	DashboardCacheTTL time.Duration `mapstructure:"analytics_dashboard_cache_ttl"`
	// TTL of the active-season lookup; season boundaries change rarely.
	SeasonCacheTTL time.Duration `mapstructure:"analytics_season_cache_ttl"`
	// Lease covering one aggregate computation; must exceed the query timeout.
	ComputeLeaseTTL time.Duration `mapstructure:"analytics_compute_lease_ttl"`
	QueryTimeout    time.Duration `mapstructure:"analytics_query_timeout"`
	JanitorInterval time.Duration `mapstructure:"analytics_cache_janitor_interval"`
}

type Warmup struct {
	CronSchedule string  `mapstructure:"dashboard_warmup_cron"`
	Enabled      bool    `mapstructure:"dashboard_warmup_enabled"`
	SchoolIDs    []int64 `mapstructure:"dashboard_warmup_school_ids"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/boukii")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)

	viper.SetDefault("AUTH_JWT_SECRET", "your_jwt_secret")
	viper.SetDefault("AUTH_SERVICE_KEY_HASH", "")

	viper.SetDefault("ANALYTICS_DASHBOARD_CACHE_TTL", "5m")
	viper.SetDefault("ANALYTICS_SEASON_CACHE_TTL", "1h")
	viper.SetDefault("ANALYTICS_COMPUTE_LEASE_TTL", "30s")
	viper.SetDefault("ANALYTICS_QUERY_TIMEOUT", "15s")
	viper.SetDefault("ANALYTICS_CACHE_JANITOR_INTERVAL", "1m")

	viper.SetDefault("DASHBOARD_WARMUP_CRON", "*/15 * * * *")
	viper.SetDefault("DASHBOARD_WARMUP_ENABLED", false)
	viper.SetDefault("DASHBOARD_WARMUP_SCHOOL_IDS", "")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("using variables loaded by godotenv (viper could not read .env): ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// loadEnvFile loads the closest .env file so local runs behave like deploys.
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("could not determine working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("loaded .env from ", location)
			return
		}
	}

	logrus.Warn("no .env file found in known locations")
}
