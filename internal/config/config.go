package config

import (
	"errors"
	"fmt"
	"time"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Video     VideoConfig     `yaml:"video"`
	Worker    WorkerConfig    `yaml:"worker"`
	Export    ExportConfig    `yaml:"export"`
	Watch     WatchConfig     `yaml:"watch"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr" env:"HTTP_ADDR"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

type GeminiConfig struct {
	APIKey      string        `yaml:"api_key" env:"GEMINI_API_KEY"`
	BaseURL     string        `yaml:"base_url" env:"GEMINI_BASE_URL"`
	APIVersion  string        `yaml:"api_version" env:"GEMINI_API_VERSION"`
	Model       string        `yaml:"model" env:"GEMINI_MODEL"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	RetryWait   time.Duration `yaml:"retry_wait"`
	Temperature float32       `yaml:"temperature"`
	TopP        float32       `yaml:"top_p"`
	TopK        float32       `yaml:"top_k"`
	MaxTokens   int32         `yaml:"max_output_tokens"`
}

type NormalizeConfig struct {
	MaxLength int `yaml:"max_length"`
}

type VideoConfig struct {
	TranscriptLanguages []string      `yaml:"transcript_languages"`
	AutoCaptionLanguage string        `yaml:"auto_caption_language"`
	TranscriptTimeout   time.Duration `yaml:"transcript_timeout"`
	HTTPTimeout         time.Duration `yaml:"http_timeout"`
}

type WorkerConfig struct {
	PoolSize int `yaml:"pool_size"`
}

type ExportConfig struct {
	FontPath     string `yaml:"font_path"`
	BoldFontPath string `yaml:"bold_font_path"`
}

type WatchConfig struct {
	Input         string `yaml:"input"`
	Output        string `yaml:"output"`
	Archived      string `yaml:"archived"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format"`
}

// ErrMissingAPIKey is returned by Validate when no Gemini key is configured.
var ErrMissingAPIKey = errors.New("gemini.api_key is required")

// Validate checks c and fills in defaults for unset fields.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return ErrMissingAPIKey
	}
	return c.validateLocal()
}

// validateLocal is Validate without the credential check.
func (c *Config) validateLocal() error {
	if c.Normalize.MaxLength < 0 {
		return fmt.Errorf("normalize.max_length must not be negative")
	}
	if c.Worker.PoolSize < 0 {
		return fmt.Errorf("worker.pool_size must not be negative")
	}
	if c.Gemini.MaxRetries < 0 {
		return fmt.Errorf("gemini.max_retries must not be negative")
	}
	if c.Export.BoldFontPath != "" && c.Export.FontPath == "" {
		return fmt.Errorf("export.font_path is required when export.bold_font_path is set")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 50 << 20
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 3 * time.Minute
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.Timeout == 0 {
		c.Gemini.Timeout = 60 * time.Second
	}
	if c.Gemini.RetryWait == 0 {
		c.Gemini.RetryWait = time.Second
	}
	if c.Gemini.Temperature == 0 {
		c.Gemini.Temperature = 0.3
	}
	if c.Gemini.TopP == 0 {
		c.Gemini.TopP = 0.95
	}
	if c.Gemini.TopK == 0 {
		c.Gemini.TopK = 40
	}
	if c.Gemini.MaxTokens == 0 {
		c.Gemini.MaxTokens = 2048
	}
	if c.Normalize.MaxLength == 0 {
		c.Normalize.MaxLength = 15000
	}
	if len(c.Video.TranscriptLanguages) == 0 {
		c.Video.TranscriptLanguages = []string{"tr", "en"}
	}
	if c.Video.AutoCaptionLanguage == "" {
		c.Video.AutoCaptionLanguage = "en"
	}
	if c.Video.TranscriptTimeout == 0 {
		c.Video.TranscriptTimeout = 20 * time.Second
	}
	if c.Video.HTTPTimeout == 0 {
		c.Video.HTTPTimeout = 15 * time.Second
	}
	if c.Worker.PoolSize == 0 {
		c.Worker.PoolSize = 4
	}
	if c.Watch.Input == "" {
		c.Watch.Input = "data/input"
	}
	if c.Watch.Output == "" {
		c.Watch.Output = "data/output"
	}
	if c.Watch.Archived == "" {
		c.Watch.Archived = "data/archived"
	}
	if c.Watch.MaxConcurrent == 0 {
		c.Watch.MaxConcurrent = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}
