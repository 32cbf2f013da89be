package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type FilesConfig struct {
	RootDir     string `yaml:"root_dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
	GrantTTLMin int    `yaml:"grant_ttl_min"`
	GrantSecret string `yaml:"grant_secret"`
}

type SessionConfig struct {
	Secret      string `yaml:"secret"`
	KDFSalt     string `yaml:"kdf_salt"`
	ShortTTLSec int    `yaml:"short_ttl_sec"`
	LongTTLSec  int    `yaml:"remember_ttl_sec"`
}

type CaptchaConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Secret    string `yaml:"secret"`
	VerifyURL string `yaml:"verify_url"`
}

type RateLimitConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	WindowSec   int `yaml:"window_sec"`
}

type TelegramConfig struct {
	BotToken  string `yaml:"bot_token"`
	OpsChatID int64  `yaml:"ops_chat_id"`
}

type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	TokenInfoURL string `yaml:"tokeninfo_url"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Session    SessionConfig   `yaml:"session"`
	Captcha    CaptchaConfig   `yaml:"captcha"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
	CodeTTLSec int             `yaml:"code_ttl_sec"`
	Files      FilesConfig     `yaml:"files"`
	Telegram   TelegramConfig  `yaml:"telegram"`
	Google     GoogleConfig    `yaml:"google"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	if cfg.Files.MaxUploadMB <= 0 {
		cfg.Files.MaxUploadMB = 200
	}
	if cfg.Files.GrantTTLMin <= 0 {
		cfg.Files.GrantTTLMin = 15
	}
	if cfg.Session.ShortTTLSec <= 0 {
		cfg.Session.ShortTTLSec = 24 * 60 * 60 // 1 day
	}
	if cfg.Session.LongTTLSec <= 0 {
		cfg.Session.LongTTLSec = 90 * 24 * 60 * 60 // 90 days
	}
	if cfg.RateLimit.MaxAttempts <= 0 {
		cfg.RateLimit.MaxAttempts = 5
	}
	if cfg.RateLimit.WindowSec <= 0 {
		cfg.RateLimit.WindowSec = 15 * 60
	}
	if cfg.CodeTTLSec <= 0 {
		cfg.CodeTTLSec = 60
	}
	if cfg.Google.TokenInfoURL == "" {
		cfg.Google.TokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	}
	return &cfg
}
