package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Config struct {
	Venue       string   `yaml:"venue" env:"VENUE" env-required:"true"`
	PartySize   int      `yaml:"party_size" env:"NUM_PEOPLE" env-default:"2"`
	MainTime    string   `yaml:"main_time" env:"MAIN_TIME" env-default:"19:00"`
	DatesNeeded []string `yaml:"dates_needed" env:"DATES_NEEDED" env-separator:"," env-required:"true"`
	TimesNeeded []string `yaml:"times_needed" env:"TIMES_NEEDED" env-separator:"," env-required:"true"`
	RetryAfter  int      `yaml:"retry_after" env:"RETRY_AFTER" env-default:"60"` // seconds

	SevenRooms SevenRooms `yaml:"sevenrooms"`
	Telegram   Telegram   `yaml:"telegram"`
	Email      Email      `yaml:"email"`
	Status     Status     `yaml:"status"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

type SevenRooms struct {
	BaseURL        string `yaml:"base_url" env:"SEVENROOMS_BASE_URL" env-default:"https://www.sevenrooms.com"`
	Channel        string `yaml:"channel" env:"SEVENROOMS_CHANNEL" env-default:"SEVENROOMS_WIDGET"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"HTTP_TIMEOUT_SECONDS" env-default:"20"`
}

type Telegram struct {
	BotToken string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
	// ChatID is a numeric chat id or an @channelusername.
	ChatID   string `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

// Enabled reports whether both the token and the chat id are present.
func (t Telegram) Enabled() bool {
	return strings.TrimSpace(t.BotToken) != "" && strings.TrimSpace(t.ChatID) != ""
}

type Email struct {
	Enabled    bool   `yaml:"enabled" env:"ENABLE_EMAIL"`
	SMTPServer string `yaml:"smtp_server" env:"EMAIL_SMTP_SERVER"`
	SMTPPort   int    `yaml:"smtp_port" env:"EMAIL_SMTP_PORT" env-default:"587"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	To         string `yaml:"to" env:"EMAIL_TO"`
}

// Missing lists the SMTP settings that are required once email is enabled.
func (e Email) Missing() []string {
	var out []string
	if strings.TrimSpace(e.SMTPServer) == "" {
		out = append(out, "EMAIL_SMTP_SERVER")
	}
	if strings.TrimSpace(e.Username) == "" {
		out = append(out, "EMAIL_USERNAME")
	}
	if e.Password == "" {
		out = append(out, "EMAIL_PASSWORD")
	}
	if strings.TrimSpace(e.To) == "" {
		out = append(out, "EMAIL_TO")
	}
	return out
}

type Status struct {
	Addr           string `yaml:"addr" env:"STATUS_ADDR"`
	PasswordBcrypt string `yaml:"password_bcrypt" env:"STATUS_PASSWORD_BCRYPT"`
	HashKey        string `yaml:"session_hash_key" env:"SESSION_HASH_KEY"`
	BlockKey       string `yaml:"session_block_key" env:"SESSION_BLOCK_KEY"`
}

// Load reads the optional YAML file at path and then applies environment
// overrides. A .env file in the working directory is loaded first if present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Venue = strings.TrimSpace(c.Venue)
	c.MainTime = strings.TrimSpace(c.MainTime)
	c.DatesNeeded = cleanList(c.DatesNeeded)
	c.TimesNeeded = cleanList(c.TimesNeeded)
	c.SevenRooms.BaseURL = strings.TrimRight(strings.TrimSpace(c.SevenRooms.BaseURL), "/")
}

func (c Config) Validate() error {
	if c.Venue == "" {
		return fmt.Errorf("VENUE required")
	}
	if c.PartySize < 1 {
		return fmt.Errorf("NUM_PEOPLE must be >= 1")
	}
	if len(c.DatesNeeded) == 0 {
		return fmt.Errorf("DATES_NEEDED required")
	}
	for _, d := range c.DatesNeeded {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("invalid DATES_NEEDED entry %q (want YYYY-MM-DD)", d)
		}
	}
	if len(c.TimesNeeded) == 0 {
		return fmt.Errorf("TIMES_NEEDED required")
	}
	for _, t := range c.TimesNeeded {
		if _, err := time.Parse(timeLayout, t); err != nil {
			return fmt.Errorf("invalid TIMES_NEEDED entry %q (want HH:MM)", t)
		}
	}
	if _, err := time.Parse(timeLayout, c.MainTime); err != nil {
		return fmt.Errorf("invalid MAIN_TIME %q (want HH:MM)", c.MainTime)
	}
	if c.RetryAfter < 1 {
		return fmt.Errorf("RETRY_AFTER must be >= 1")
	}
	if c.SevenRooms.BaseURL == "" {
		return fmt.Errorf("SEVENROOMS_BASE_URL required")
	}
	return nil
}

// Dates returns the configured dates in order. Validate guarantees they parse.
func (c Config) Dates() []time.Time {
	out := make([]time.Time, 0, len(c.DatesNeeded))
	for _, d := range c.DatesNeeded {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.RetryAfter) * time.Second
}

func (c Config) HTTPTimeout() time.Duration {
	if c.SevenRooms.TimeoutSeconds < 1 {
		return 20 * time.Second
	}
	return time.Duration(c.SevenRooms.TimeoutSeconds) * time.Second
}

// SessionKeys decodes the status-server cookie keys. Both are nil when unset.
func (s Status) SessionKeys() (hashKey, blockKey []byte, err error) {
	if s.HashKey == "" && s.BlockKey == "" {
		return nil, nil, nil
	}
	if s.HashKey == "" || s.BlockKey == "" {
		return nil, nil, fmt.Errorf("SESSION_HASH_KEY and SESSION_BLOCK_KEY must be set together")
	}
	hashKey, err = decodeB64(s.HashKey)
	if err != nil {
		return nil, nil, fmt.Errorf("SESSION_HASH_KEY: %w", err)
	}
	blockKey, err = decodeB64(s.BlockKey)
	if err != nil {
		return nil, nil, fmt.Errorf("SESSION_BLOCK_KEY: %w", err)
	}
	return hashKey, blockKey, nil
}

func decodeB64(s string) ([]byte, error) {
	b, err := os.ReadFile(s)
	if err == nil {
		// allow pointing to file path for secret mounts
		s = string(b)
	}
	s = strings.TrimSpace(s)
	if dec, err := base64.StdEncoding.DecodeString(s); err == nil {
		return dec, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

func cleanList(in []string) []string {
	var out []string
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
