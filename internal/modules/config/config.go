package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	feedURLENV        = "FEED_URL"
	redisAddrENV      = "REDIS_ADDR"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Host       string `yaml:"host"`
		HealthAddr string `yaml:"health_addr"`
	} `yaml:"service"`

	// Фид изменений по таблице сигналов
	Feed struct {
		URL   string `yaml:"url"`
		Table string `yaml:"table"`
	} `yaml:"feed"`

	Redis struct {
		Addr string `yaml:"addr"`
		DB   int    `yaml:"db"`
	} `yaml:"redis"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Режим витрины: latest — один сигнал на инструмент, all — все по trade id
	Mode string `yaml:"mode"`

	// Файл с переопределением расписаний рынков (опционально)
	ScheduleFile string `yaml:"schedule_file"`

	// Инструменты, по которым монитор раз в минуту публикует статус рынка
	Watchlist []string `yaml:"watchlist"`

	// Антидребезг уведомлений движка
	DebounceWindow time.Duration
	// Размер снапшота при старте/ресинке
	SnapshotLimit int
	// Период переоценки статуса рынка
	MarketRefreshEvery time.Duration
}

func NewConfig() (*Config, error) {
	// локальная разработка: подтягиваем .env, если он есть
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		Mode: "latest",

		DebounceWindow:     durationFromEnv("DEBOUNCE_WINDOW", "1s"),
		SnapshotLimit:      intFromEnv("SNAPSHOT_LIMIT", 200),
		MarketRefreshEvery: durationFromEnv("MARKET_REFRESH_EVERY", "1m"),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	if v := os.Getenv(feedURLENV); v != "" {
		config.Feed.URL = v
	}
	if v := os.Getenv(redisAddrENV); v != "" {
		config.Redis.Addr = v
	}
	if v := os.Getenv("SIGNAL_MODE"); v != "" {
		config.Mode = strings.ToLower(v)
	}
	if config.Mode != "all" {
		config.Mode = "latest"
	}
	if config.Feed.Table == "" {
		config.Feed.Table = "signals"
	}
	if config.Service.HealthAddr == "" {
		config.Service.HealthAddr = ":8080"
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
