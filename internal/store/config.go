package store

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr                string `yaml:"addr" validate:"required"`
		Production          bool   `yaml:"production"`
		ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds" validate:"gte=0"`
		WriteTimeoutSeconds int    `yaml:"write_timeout_seconds" validate:"gte=0"`
	} `yaml:"server"`
	Kite struct {
		BaseURL        string `yaml:"base_url" validate:"omitempty,url"`
		Exchange       string `yaml:"exchange" validate:"required"`
		Interval       string `yaml:"interval" validate:"required"`
		TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gt=0"`
	} `yaml:"kite"`
	Session struct {
		CookieName  string `yaml:"cookie_name" validate:"required"`
		MaxAgeHours int    `yaml:"max_age_hours" validate:"gt=0"`
	} `yaml:"session"`
	LLM struct {
		Provider       string  `yaml:"provider" validate:"oneof=OPENAI CLAUDE NOOP"`
		Model          string  `yaml:"model"`
		BaseURL        string  `yaml:"base_url" validate:"omitempty,url"`
		MaxTokens      int     `yaml:"max_tokens" validate:"gt=0"`
		Temperature    float32 `yaml:"temperature" validate:"gte=0,lte=2"`
		TimeoutSeconds int     `yaml:"timeout_seconds" validate:"gt=0"`
	} `yaml:"llm"`

	// Secrets come from the environment only.
	Secrets Secrets `yaml:"-"`
}

type Secrets struct {
	KiteAPIKey       string `validate:"required"`
	KiteAPISecret    string `validate:"required"`
	KiteClientID     string `validate:"required"`
	KitePublicAPIKey string `validate:"required"`
	SessionSecret    string `validate:"omitempty,min=32"`
	OpenAIAPIKey     string
	ClaudeAPIKey     string
	// KiteAccessToken seeds the CLI session; the web server ignores it.
	KiteAccessToken string
}

var clientIDPattern = regexp.MustCompile(`^[A-Z]{2}\d{4}$`)

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	if !clientIDPattern.MatchString(c.Secrets.KiteClientID) {
		return fmt.Errorf("KITE_API_CLIENT_ID '%s' must look like AB1234", c.Secrets.KiteClientID)
	}
	switch c.LLM.Provider {
	case "OPENAI":
		if c.Secrets.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required when llm.provider is OPENAI")
		}
	case "CLAUDE":
		if c.Secrets.ClaudeAPIKey == "" {
			return errors.New("CLAUDE_API_KEY is required when llm.provider is CLAUDE")
		}
	}
	return nil
}

func (c *Config) KiteTimeout() time.Duration {
	return time.Duration(c.Kite.TimeoutSeconds) * time.Second
}

func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.Session.MaxAgeHours) * time.Hour
}

// LoadConfig reads path (a missing file means defaults), overlays secrets from
// the environment and validates the result.
func LoadConfig(path string) (*Config, error) {
	c := Defaults()

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	c.LLM.Provider = strings.ToUpper(strings.TrimSpace(c.LLM.Provider))
	c.Kite.Exchange = strings.ToUpper(strings.TrimSpace(c.Kite.Exchange))
	c.Secrets = SecretsFromEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// Defaults returns the configuration used for any field the YAML file omits.
func Defaults() *Config {
	var c Config
	c.Server.Addr = ":3000"
	c.Server.ReadTimeoutSeconds = 15
	c.Server.WriteTimeoutSeconds = 60
	c.Kite.Exchange = "NSE"
	c.Kite.Interval = "day"
	c.Kite.TimeoutSeconds = 15
	c.Session.CookieName = "anaam_stocks_session"
	c.Session.MaxAgeHours = 24
	c.LLM.Provider = "OPENAI"
	// Empty model means the provider default.
	c.LLM.Model = ""
	c.LLM.MaxTokens = 500
	c.LLM.Temperature = 0.7
	c.LLM.TimeoutSeconds = 60
	return &c
}

func SecretsFromEnv() Secrets {
	s := Secrets{
		KiteAPIKey:       os.Getenv("KITE_API_KEY"),
		KiteAPISecret:    os.Getenv("KITE_API_SECRET"),
		KiteClientID:     os.Getenv("KITE_API_CLIENT_ID"),
		KitePublicAPIKey: os.Getenv("KITE_PUBLIC_API_KEY"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		ClaudeAPIKey:     os.Getenv("CLAUDE_API_KEY"),
		KiteAccessToken:  os.Getenv("KITE_ACCESS_TOKEN"),
	}
	if s.KitePublicAPIKey == "" {
		s.KitePublicAPIKey = s.KiteAPIKey
	}
	return s
}
