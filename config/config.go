package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress    string   `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"
	AppEnv           string   `mapstructure:"APP_ENV"`        // "production" switches gin to release mode
	LogLevel         string   `mapstructure:"LOG_LEVEL"`      // debug, info, warn, error
	CORSAllowOrigins []string `mapstructure:"CORS_ALLOW_ORIGINS"`

	// AI Configuration
	OpenAIKey           string  `mapstructure:"OPENAI_API_KEY"`  // API key for OpenAI; empty runs every stage on its fallback
	OpenAIBaseURL       string  `mapstructure:"OPENAI_BASE_URL"` // optional OpenAI-compatible gateway
	CompletionModel     string  `mapstructure:"COMPLETION_MODEL"`
	ImageModel          string  `mapstructure:"IMAGE_MODEL"`
	ImageSize           string  `mapstructure:"IMAGE_SIZE"`
	ImageQuality        string  `mapstructure:"IMAGE_QUALITY"`
	AIRequestsPerSecond float64 `mapstructure:"AI_REQUESTS_PER_SECOND"`
	AIBurst             int     `mapstructure:"AI_BURST"`

	// Pipeline Configuration
	StageTimeout         time.Duration `mapstructure:"STAGE_TIMEOUT"`   // budget for a single AI call
	RequestTimeout       time.Duration `mapstructure:"REQUEST_TIMEOUT"` // budget for the whole pipeline
	SectionConcurrency   int           `mapstructure:"SECTION_CONCURRENCY"`
	AIStyleHarmonization bool          `mapstructure:"AI_STYLE_HARMONIZATION"`
	AILayoutPlanning     bool          `mapstructure:"AI_LAYOUT_PLANNING"`
	RenderImages         bool          `mapstructure:"RENDER_IMAGES"`

	// Store Configuration
	RedisAddress  string        `mapstructure:"REDIS_ADDRESS"` // empty keeps websites in memory
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	SiteTTL       time.Duration `mapstructure:"SITE_TTL"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":         ":8080",
	"APP_ENV":                "development",
	"LOG_LEVEL":              "info",
	"CORS_ALLOW_ORIGINS":     []string{"*"},
	"OPENAI_API_KEY":         "",
	"OPENAI_BASE_URL":        "",
	"COMPLETION_MODEL":       "gpt-4o",
	"IMAGE_MODEL":            "dall-e-3",
	"IMAGE_SIZE":             "1792x1024",
	"IMAGE_QUALITY":          "standard",
	"AI_REQUESTS_PER_SECOND": 5.0,
	"AI_BURST":               5,
	"STAGE_TIMEOUT":          20 * time.Second,
	"REQUEST_TIMEOUT":        90 * time.Second,
	"SECTION_CONCURRENCY":    4,
	"AI_STYLE_HARMONIZATION": false,
	"AI_LAYOUT_PLANNING":     false,
	"RENDER_IMAGES":          false,
	"REDIS_ADDRESS":          "",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               0,
	"SITE_TTL":               24 * time.Hour,
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)     // Path to look for the config file in
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	// AutomaticEnv only resolves keys viper already knows about
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file ('config.yaml') not found in specified path, relying solely on environment variables.")
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("Using configuration file: %s", v.ConfigFileUsed())
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}

	if config.OpenAIKey == "" {
		log.Println("WARN: OPENAI_API_KEY is not set. Every AI stage will use its fallback.")
	}
	return config, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.StageTimeout <= 0 {
		errs = append(errs, fmt.Errorf("STAGE_TIMEOUT must be positive, got %s", c.StageTimeout))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	} else if c.RequestTimeout < c.StageTimeout {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT (%s) must not be shorter than STAGE_TIMEOUT (%s)", c.RequestTimeout, c.StageTimeout))
	}
	if c.SectionConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("SECTION_CONCURRENCY must be positive, got %d", c.SectionConcurrency))
	}
	if c.SiteTTL <= 0 {
		errs = append(errs, fmt.Errorf("SITE_TTL must be positive, got %s", c.SiteTTL))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
