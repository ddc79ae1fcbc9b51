// Package config 从环境变量读取运行配置。
//
// 调用方可以先用 .env 文件填充环境变量。监听端口沿用 PORT，
// 其余配置项统一使用 GAMES_ 前缀：
//
//	GAMES_LOG_LEVEL=debug -> Config.Log.Level
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix          = "GAMES_"
	defaultPort        = "4242"
	defaultEventBuffer = 16
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Events EventsConfig
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr               string
	CORSAllowedOrigins []string
}

// LogConfig 描述日志级别与输出格式。
type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `validate:"oneof=console json"`
}

// EventsConfig 描述变更事件流配置。
type EventsConfig struct {
	Buffer int `validate:"min=1"`
}

// raw 对应扁平的 GAMES_* 环境变量。
type raw struct {
	Port               string `koanf:"port"`
	LogLevel           string `koanf:"log_level"`
	LogFormat          string `koanf:"log_format"`
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
	EventBuffer        int    `koanf:"event_buffer"`
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var settings raw
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if settings.EventBuffer == 0 {
		settings.EventBuffer = defaultEventBuffer
	}

	port := strings.TrimSpace(settings.Port)
	if port == "" {
		port = strings.TrimSpace(os.Getenv("PORT"))
	}
	server, err := loadServerConfig(port, settings.CORSAllowedOrigins)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: server,
		Log: LogConfig{
			Level:  strings.ToLower(valueOrDefault(settings.LogLevel, "info")),
			Format: strings.ToLower(valueOrDefault(settings.LogFormat, "console")),
		},
		Events: EventsConfig{Buffer: settings.EventBuffer},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig(port, origins string) (ServerConfig, error) {
	if port == "" {
		port = defaultPort
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	addr := port
	if !strings.Contains(port, ":") {
		addr = ":" + port
	}

	return ServerConfig{
		Addr:               addr,
		CORSAllowedOrigins: splitList(valueOrDefault(origins, "*")),
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func valueOrDefault(value, defaultValue string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return defaultValue
}
