// Package config assembles errand settings from defaults, an optional YAML
// file, a .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "errand.yaml"

// DefaultEnvFile is the dotenv file loaded when --env is not given.
const DefaultEnvFile = ".env"

type Config struct {
	SMTP     SMTP     `mapstructure:"smtp" yaml:"smtp"`
	Mailjet  Mailjet  `mapstructure:"mailjet" yaml:"mailjet"`
	Twilio   Twilio   `mapstructure:"twilio" yaml:"twilio"`
	Search   Search   `mapstructure:"search" yaml:"search"`
	Explorer Explorer `mapstructure:"explorer" yaml:"explorer"`
	Redis    Redis    `mapstructure:"redis" yaml:"redis"`
	Journal  Journal  `mapstructure:"journal" yaml:"journal"`
	FaceSwap FaceSwap `mapstructure:"faceswap" yaml:"faceswap"`
}

type SMTP struct {
	Host     string        `mapstructure:"host" yaml:"host"`
	Port     int           `mapstructure:"port" yaml:"port"`
	Email    string        `mapstructure:"email" yaml:"email"`
	Receiver string        `mapstructure:"receiver" yaml:"receiver"`
	Password string        `mapstructure:"password" yaml:"password"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type Mailjet struct {
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	APISecret string `mapstructure:"api_secret" yaml:"api_secret"`
	From      string `mapstructure:"from" yaml:"from"`
	FromName  string `mapstructure:"from_name" yaml:"from_name"`
	To        string `mapstructure:"to" yaml:"to"`
	ToName    string `mapstructure:"to_name" yaml:"to_name"`
}

type Twilio struct {
	SID            string `mapstructure:"sid" yaml:"sid"`
	Auth           string `mapstructure:"auth" yaml:"auth"`
	From           string `mapstructure:"from" yaml:"from"`
	To             string `mapstructure:"to" yaml:"to"`
	WhatsAppFrom   string `mapstructure:"whatsapp_from" yaml:"whatsapp_from"`
	WhatsAppTo     string `mapstructure:"whatsapp_to" yaml:"whatsapp_to"`
	WhatsAppNumber string `mapstructure:"whatsapp_number" yaml:"whatsapp_number"` // fallback recipient
	TwiMLURL       string `mapstructure:"twiml_url" yaml:"twiml_url"`
}

type Search struct {
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
	Limit     int    `mapstructure:"limit" yaml:"limit"`
	Output    string `mapstructure:"output" yaml:"output"`
}

type Explorer struct {
	Root     string `mapstructure:"root" yaml:"root"`
	Home     string `mapstructure:"home" yaml:"home"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Sessions string `mapstructure:"sessions" yaml:"sessions"` // directory for file-backed sessions
}

type Redis struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
}

type Journal struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type FaceSwap struct {
	Cascade string `mapstructure:"cascade" yaml:"cascade"`
}

// envBindings maps environment variables onto dotted config keys.
var envBindings = []struct {
	Env string
	Key string
}{
	{"GMAIL_EMAIL", "smtp.email"},
	{"GMAIL_RECEIVER", "smtp.receiver"},
	{"GMAIL_PASSWORD", "smtp.password"},
	{"ERRAND_SMTP_HOST", "smtp.host"},
	{"ERRAND_SMTP_PORT", "smtp.port"},
	{"MAILJET_API_KEY", "mailjet.api_key"},
	{"MAILJET_API_SECRET", "mailjet.api_secret"},
	{"MAILJET_FROM", "mailjet.from"},
	{"MAILJET_TO", "mailjet.to"},
	{"TWILIO_SID", "twilio.sid"},
	{"TWILIO_AUTH", "twilio.auth"},
	{"TWILIO_FROM", "twilio.from"},
	{"TWILIO_TO", "twilio.to"},
	{"TWILIO_WHATSAPP_FROM", "twilio.whatsapp_from"},
	{"TWILIO_WHATSAPP_TO", "twilio.whatsapp_to"},
	{"WHATSAPP_NUMBER", "twilio.whatsapp_number"},
	{"ERRAND_SEARCH_URL", "search.base_url"},
	{"ERRAND_EXPLORER_ROOT", "explorer.root"},
	{"ERRAND_REDIS_ADDR", "redis.addr"},
	{"ERRAND_REDIS_PASSWORD", "redis.password"},
	{"ERRAND_JOURNAL", "journal.path"},
	{"ERRAND_CASCADE", "faceswap.cascade"},
}

func defaults() map[string]any {
	return map[string]any{
		"smtp": map[string]any{
			"host":    "smtp.gmail.com",
			"port":    465,
			"timeout": "30s",
		},
		"mailjet": map[string]any{
			"from_name": "Anonymous Sender",
			"to_name":   "Receiver",
		},
		"twilio": map[string]any{
			"twiml_url": "http://demo.twilio.com/docs/voice.xml",
		},
		"search": map[string]any{
			"limit":  10,
			"output": "search_results.txt",
		},
		"explorer": map[string]any{
			"root": ".",
			"port": 8501,
		},
		"redis": map[string]any{
			"ttl":    "24h",
			"prefix": "errand:explorer:",
		},
	}
}

// LoadDotEnv loads a dotenv file into the process environment. A missing
// file is not an error; variables already set are not overridden.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads envFile and the YAML file at path and returns the merged config.
// A missing file at DefaultPath is ignored; any other missing path is an error.
func Load(path, envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := LoadDotEnv(envFile); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	raw := defaults()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		merge(raw, file)
	case errors.Is(err, os.ErrNotExist) && path == DefaultPath:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(raw, os.LookupEnv)
	return Decode(raw)
}

// Decode converts a generic settings tree into a Config.
func Decode(raw map[string]any) (*Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// merge copies src into dst, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

func applyEnv(raw map[string]any, lookup func(string) (string, bool)) {
	for _, b := range envBindings {
		if v, ok := lookup(b.Env); ok && v != "" {
			set(raw, b.Key, v)
		}
	}
}

func set(raw map[string]any, key, value string) {
	parts := strings.Split(key, ".")
	node := raw
	for _, p := range parts[:len(parts)-1] {
		next, ok := node[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			node[p] = next
		}
		node = next
	}
	node[parts[len(parts)-1]] = value
}
