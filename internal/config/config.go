package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	defaultAddr       = ":8080"
	defaultConfigFile = "chatmux.toml"

	// defaultUpstreamTimeout bounds how long we wait for a provider to start
	// answering. It is a response-header timeout, not a whole-request
	// deadline, so long streams are not cut off mid-relay.
	defaultUpstreamTimeout = 120 * time.Second
)

var (
	dev      = flag.Bool("dev", false, "Development mode")
	logPath  = flag.String("logPath", "", "Path to save the log file")
	addr     = flag.String("addr", defaultAddr, "Address to listen on")
	confFile = flag.String("config", "", "Path to a TOML config file")
)

// Config holds everything read at process start. Credentials are read once
// here and handed to the provider clients explicitly; nothing else reads the
// environment after Init returns.
type Config struct {
	Dev     bool
	LogPath string
	Addr    string

	OpenAIKey    string
	AnthropicKey string

	OpenAIBaseURL    string
	AnthropicBaseURL string

	UpstreamTimeout time.Duration
}

type fileConfig struct {
	Addr                   string `toml:"addr"`
	OpenAIBaseURL          string `toml:"openai_base_url"`
	AnthropicBaseURL       string `toml:"anthropic_base_url"`
	UpstreamTimeoutSeconds int    `toml:"upstream_timeout_seconds"`
}

func Init() (*Config, error) {
	flag.Parse()

	// A missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		Dev:             *dev,
		LogPath:         *logPath,
		Addr:            *addr,
		UpstreamTimeout: defaultUpstreamTimeout,
	}

	path := *confFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg, os.LookupEnv)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if fc.Addr != "" {
		cfg.Addr = fc.Addr
	}
	if fc.OpenAIBaseURL != "" {
		cfg.OpenAIBaseURL = fc.OpenAIBaseURL
	}
	if fc.AnthropicBaseURL != "" {
		cfg.AnthropicBaseURL = fc.AnthropicBaseURL
	}
	if fc.UpstreamTimeoutSeconds > 0 {
		cfg.UpstreamTimeout = time.Duration(fc.UpstreamTimeoutSeconds) * time.Second
	}
	return nil
}

// applyEnv layers environment values over cfg. Empty credentials are kept as
// empty strings on purpose: requests are still attempted and the upstream's
// rejection is surfaced instead of failing fast here.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup("OPENAI_API_KEY"); ok {
		cfg.OpenAIKey = v
	}
	if v, ok := lookup("ANTHROPIC_API_KEY"); ok {
		cfg.AnthropicKey = v
	}
	if v, ok := lookup("OPENAI_API_BASE_URL"); ok && v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v, ok := lookup("ANTHROPIC_API_BASE_URL"); ok && v != "" {
		cfg.AnthropicBaseURL = v
	}
}
