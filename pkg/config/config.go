package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Providers ProvidersConfig
	PageSpeed PageSpeedConfig
	SSLLabs   SSLLabsConfig
	Scraper   ScraperConfig
	Redis     RedisConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type ProvidersConfig struct {
	OpenAI     ProviderConfig
	Claude     ProviderConfig
	TimeoutSec int
}

// ProviderConfig describes one LLM backend. Claude is reached through an
// OpenAI-compatible gateway, so both share the same shape; BaseURL is empty
// for the default OpenAI endpoint.
type ProviderConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
}

type PageSpeedConfig struct {
	APIKey     string
	Endpoint   string
	TimeoutSec int
}

type SSLLabsConfig struct {
	Endpoint   string
	TimeoutSec int
}

type ScraperConfig struct {
	UserAgent     string
	TimeoutSec    int
	MaxTextLength int
}

type RedisConfig struct {
	Host           string
	Port           int
	Password       string
	DB             int
	ReportTTLHours int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/brandaudit")

	viper.SetEnvPrefix("BRANDAUDIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 120)
	viper.SetDefault("server.writeTimeout", 120)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("providers.timeoutSec", 25)
	viper.SetDefault("providers.openai.model", "gpt-4-turbo-preview")
	viper.SetDefault("providers.openai.temperature", 0.2)
	viper.SetDefault("providers.openai.maxTokens", 1200)
	viper.SetDefault("providers.claude.model", "claude-3-sonnet")
	viper.SetDefault("providers.claude.temperature", 0.2)
	viper.SetDefault("providers.claude.maxTokens", 1200)

	viper.SetDefault("pagespeed.endpoint", "https://www.googleapis.com/pagespeedonline/v5/runPagespeed")
	viper.SetDefault("pagespeed.timeoutSec", 45)

	viper.SetDefault("ssllabs.endpoint", "https://api.ssllabs.com/api/v3/analyze")
	viper.SetDefault("ssllabs.timeoutSec", 20)

	viper.SetDefault("scraper.userAgent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	viper.SetDefault("scraper.timeoutSec", 30)
	viper.SetDefault("scraper.maxTextLength", 15000)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.reportTTLHours", 24)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
