package shared

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	AssistantURL     string
	AssistantRPS     int
	AssistantTimeout time.Duration
	OfflineMode      bool

	USDToINR       float64
	CurrencySymbol string
	CurrencyLocale string

	StoreBackend string // memory|redis|mysql
	MySQLDSN     string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	CacheTTL     time.Duration
	SessionTTL   time.Duration

	BotName       string
	ReplayWorkers int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "prod")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("METRICS_ADDR", "")
	v.SetDefault("ASSISTANT_URL", "http://localhost:5000/api/chat")
	v.SetDefault("ASSISTANT_RPS", 5)
	v.SetDefault("ASSISTANT_TIMEOUT_SECONDS", 30)
	v.SetDefault("OFFLINE_MODE", false)
	v.SetDefault("USD_TO_INR", 83.0)
	v.SetDefault("CURRENCY_SYMBOL", "₹")
	v.SetDefault("CURRENCY_LOCALE", "en-IN")
	v.SetDefault("STORE_BACKEND", "memory")
	v.SetDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/tapas?parseTime=true&charset=utf8mb4,utf8&loc=UTC")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 900)
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("BOT_NAME", "TAPAS")
	v.SetDefault("REPLAY_WORKERS", 8)
}

// Load reads defaults, then the optional file named by CONFIG_FILE, then the environment.
func Load() Config {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("config file not loaded; using env and defaults")
		}
	}

	c := Config{
		AppEnv:           v.GetString("APP_ENV"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		HTTPAddr:         v.GetString("HTTP_ADDR"),
		MetricsAddr:      v.GetString("METRICS_ADDR"),
		AssistantURL:     v.GetString("ASSISTANT_URL"),
		AssistantRPS:     v.GetInt("ASSISTANT_RPS"),
		AssistantTimeout: time.Duration(v.GetInt("ASSISTANT_TIMEOUT_SECONDS")) * time.Second,
		OfflineMode:      v.GetBool("OFFLINE_MODE"),
		USDToINR:         v.GetFloat64("USD_TO_INR"),
		CurrencySymbol:   v.GetString("CURRENCY_SYMBOL"),
		CurrencyLocale:   v.GetString("CURRENCY_LOCALE"),
		StoreBackend:     strings.ToLower(v.GetString("STORE_BACKEND")),
		MySQLDSN:         v.GetString("MYSQL_DSN"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPass:        v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		CacheTTL:         time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		SessionTTL:       time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		BotName:          v.GetString("BOT_NAME"),
		ReplayWorkers:    v.GetInt("REPLAY_WORKERS"),
	}
	if c.USDToINR <= 0 {
		log.Warn().Float64("usd_to_inr", c.USDToINR).Msg("invalid USD_TO_INR; using 83")
		c.USDToINR = 83
	}
	if c.AssistantURL == "" && !c.OfflineMode {
		log.Warn().Msg("ASSISTANT_URL is empty; switching to offline mode")
		c.OfflineMode = true
	}
	return c
}
