package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	History   HistoryConfig
	Shops     ShopsConfig
	Assistant AssistantConfig
	CORS      CORSConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	history, err := loadHistoryConfig()
	if err != nil {
		return nil, err
	}

	shops, err := loadShopsConfig()
	if err != nil {
		return nil, err
	}

	assistant, err := loadAssistantConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		History:   history,
		Shops:     shops,
		Assistant: assistant,
		CORS:      loadCORSConfig(),
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// HistoryConfig selects where chat logs are kept.
type HistoryConfig struct {
	Driver    string
	RedisURL  string
	KeyPrefix string
	TTL       time.Duration
}

func loadHistoryConfig() (HistoryConfig, error) {
	driver := strings.ToLower(getEnvOrDefault("HISTORY_DRIVER", "memory"))
	if driver != "memory" && driver != "redis" {
		return HistoryConfig{}, fmt.Errorf("invalid HISTORY_DRIVER value %q: want memory or redis", driver)
	}

	ttl, err := parseDurationEnv("HISTORY_TTL", 0)
	if err != nil {
		return HistoryConfig{}, err
	}

	cfg := HistoryConfig{
		Driver:    driver,
		RedisURL:  strings.TrimSpace(os.Getenv("REDIS_URL")),
		KeyPrefix: getEnvOrDefault("HISTORY_KEY_PREFIX", "hamra:"),
		TTL:       ttl,
	}
	if cfg.Driver == "redis" && cfg.RedisURL == "" {
		return HistoryConfig{}, fmt.Errorf("REDIS_URL is required when HISTORY_DRIVER=redis")
	}
	return cfg, nil
}

// ShopsConfig selects where tenant shop snapshots come from.
type ShopsConfig struct {
	Source      string
	APIBaseURL  string
	APITimeout  time.Duration
	DatabaseURL string
	EnsureView  bool
	SeedFile    string
}

func loadShopsConfig() (ShopsConfig, error) {
	source := strings.ToLower(getEnvOrDefault("SHOPS_SOURCE", "api"))
	switch source {
	case "api", "postgres", "memory":
	default:
		return ShopsConfig{}, fmt.Errorf("invalid SHOPS_SOURCE value %q: want api, postgres or memory", source)
	}

	timeout, err := parseDurationEnv("SHOPS_API_TIMEOUT", 10*time.Second)
	if err != nil {
		return ShopsConfig{}, err
	}

	ensureView, err := parseBoolEnv("SHOPS_ENSURE_VIEW", true)
	if err != nil {
		return ShopsConfig{}, err
	}

	cfg := ShopsConfig{
		Source:      source,
		APIBaseURL:  getEnvOrDefault("SHOPS_API_BASE_URL", "http://localhost:8000"),
		APITimeout:  timeout,
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		EnsureView:  ensureView,
		SeedFile:    strings.TrimSpace(os.Getenv("SHOPS_SEED_FILE")),
	}
	if cfg.Source == "postgres" && cfg.DatabaseURL == "" {
		return ShopsConfig{}, fmt.Errorf("DATABASE_URL is required when SHOPS_SOURCE=postgres")
	}
	return cfg, nil
}

// AssistantConfig 描述回复行为。
type AssistantConfig struct {
	TypingDelay time.Duration
	Location    *time.Location
}

func loadAssistantConfig() (AssistantConfig, error) {
	delay, err := parseDurationEnv("ASSISTANT_TYPING_DELAY", time.Second)
	if err != nil {
		return AssistantConfig{}, err
	}
	if delay < 0 {
		return AssistantConfig{}, fmt.Errorf("invalid ASSISTANT_TYPING_DELAY value %v: must not be negative", delay)
	}

	name := getEnvOrDefault("ASSISTANT_TIMEZONE", "Africa/Kampala")
	loc, err := time.LoadLocation(name)
	if err != nil {
		return AssistantConfig{}, fmt.Errorf("invalid ASSISTANT_TIMEZONE value %q: %w", name, err)
	}

	return AssistantConfig{TypingDelay: delay, Location: loc}, nil
}

type CORSConfig struct {
	AllowedOrigins []string
}

func loadCORSConfig() CORSConfig {
	raw := getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSConfig{AllowedOrigins: origins}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

// parseDurationEnv accepts Go durations ("1500ms") or bare seconds ("2").
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}
