package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Api   *ApiConfig
	Push  *PushConfig
	Srv   *ServerConfig
	Poll  *PollConfig
	Prefs *PrefsConfig
	Log   *LoggerConfig
}

type ApiConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type PushConfig struct {
	// URL is authoritative when set; otherwise it is derived from the REST
	// base URL, or falls back to the local default.
	URL  string
	Room string
}

type ServerConfig struct {
	Port int
}

type PollConfig struct {
	RidesInterval   time.Duration
	DriversInterval time.Duration
}

type PrefsConfig struct {
	Path string
}

type LoggerConfig struct {
	Level string
}

const fallbackPushURL = "ws://localhost:3001/ws/admin"

func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("no .env file found, using system environment")
	}

	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Printf("invalid %s, using default %v\n", key, def)
			return def
		}
		return val
	}

	apiBase := getEnv("API_BASE_URL", "http://localhost:3004")

	cnf := &Config{
		Api: &ApiConfig{
			BaseURL: strings.TrimRight(apiBase, "/"),
			Token:   os.Getenv("ADMIN_TOKEN"),
			Timeout: time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Push: &PushConfig{
			URL:  ResolvePushURL(os.Getenv("PUSH_URL"), apiBase),
			Room: getEnv("PUSH_ROOM", "admin"),
		},
		Srv: &ServerConfig{
			Port: getEnvInt("BOARD_PORT", 3010),
		},
		Poll: &PollConfig{
			RidesInterval:   time.Duration(getEnvInt("RIDES_POLL_SECONDS", 15)) * time.Second,
			DriversInterval: time.Duration(getEnvInt("DRIVERS_POLL_SECONDS", 30)) * time.Second,
		},
		Prefs: &PrefsConfig{
			Path: getEnv("PREFS_DB_PATH", "board_prefs.db"),
		},
		Log: &LoggerConfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}

	return cnf, nil
}

// ResolvePushURL picks the push endpoint: explicit override first, then a
// ws:// URL derived from the REST base, then the hardcoded fallback.
func ResolvePushURL(override, apiBase string) string {
	if override != "" {
		return override
	}
	if apiBase != "" {
		derived := apiBase
		switch {
		case strings.HasPrefix(derived, "https://"):
			derived = "wss://" + strings.TrimPrefix(derived, "https://")
		case strings.HasPrefix(derived, "http://"):
			derived = "ws://" + strings.TrimPrefix(derived, "http://")
		}
		return strings.TrimRight(derived, "/") + "/ws/admin"
	}
	return fallbackPushURL
}
