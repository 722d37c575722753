// Package config assembles the runtime configuration from defaults, the
// config file, .env files and the environment. Nothing below this package
// reads the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/verifact/internal/llm"
	"github.com/ppiankov/verifact/internal/model"
)

const (
	// EnvPrefix prefixes every environment override, e.g. VERIFACT_LLM_MODEL
	EnvPrefix = "VERIFACT"

	// SearchKeyEnv holds the Tavily API key
	SearchKeyEnv = "TAVILY_API_KEY"

	dirName  = ".verifact"
	fileName = "config.yaml"
)

// DefaultPath returns ~/.verifact/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error finding home directory: %w", err)
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Setup prepares v: defaults for every key, env prefix and credential
// bindings, and the config file location. An empty cfgFile searches
// ~/.verifact for config.yaml.
func Setup(v *viper.Viper, cfgFile string) error {
	if err := setDefaults(v, model.DefaultConfig()); err != nil {
		return err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Well-known provider variables are accepted alongside the prefixed ones
	if err := v.BindEnv("search.api_key", EnvPrefix+"_SEARCH_API_KEY", SearchKeyEnv); err != nil {
		return err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// Defaults and environment still apply
		return nil
	}
	v.AddConfigPath(filepath.Join(home, dirName))
	v.SetConfigType("yaml")
	v.SetConfigName("config")
	return nil
}

// ReadFile reads the config file if there is one. A missing default file is
// not an error; a missing explicit file is.
func ReadFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("read config file: %w", err)
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Build unmarshals v into a config, fills provider credentials from their
// well-known variables and validates the result
func Build(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.Provider == "claude" {
		cfg.LLM.Provider = llm.ProviderAnthropic
	}

	if cfg.LLM.APIKey == "" {
		if name := llm.CredentialEnvVar(cfg.LLM.Provider); name != "" {
			cfg.LLM.APIKey = os.Getenv(name)
		}
	}
	if cfg.LLM.Provider == llm.ProviderOllama && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	if cfg.LLM.HTTPProxy == "" {
		cfg.LLM.HTTPProxy = firstEnv("HTTP_PROXY", "http_proxy")
	}
	if cfg.LLM.HTTPSProxy == "" {
		cfg.LLM.HTTPSProxy = firstEnv("HTTPS_PROXY", "https_proxy")
	}
	// Search goes through the same proxy unless it has its own
	if cfg.Search.HTTPProxy == "" {
		cfg.Search.HTTPProxy = cfg.LLM.HTTPProxy
	}
	if cfg.Search.HTTPSProxy == "" {
		cfg.Search.HTTPSProxy = cfg.LLM.HTTPSProxy
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load runs Setup, LoadDotEnv, ReadFile and Build on a fresh viper instance
func Load(cfgFile string) (*model.Config, *viper.Viper, error) {
	v := viper.New()
	if err := LoadDotEnv(); err != nil {
		return nil, nil, err
	}
	if err := Setup(v, cfgFile); err != nil {
		return nil, nil, err
	}
	if err := ReadFile(v); err != nil {
		return nil, nil, err
	}
	cfg, err := Build(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// Validate checks value ranges. Credentials are checked separately by
// Credentials.Validate so that `config show` works without them.
func Validate(cfg *model.Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Redacted returns a copy of cfg with API keys masked, for display
func Redacted(cfg *model.Config) *model.Config {
	out := *cfg
	out.LLM.APIKey = mask(cfg.LLM.APIKey)
	out.Search.APIKey = mask(cfg.Search.APIKey)
	return &out
}

func mask(key string) string {
	switch {
	case key == "":
		return ""
	case len(key) <= 8:
		return "****"
	default:
		return key[:4] + "****" + key[len(key)-4:]
	}
}

// setDefaults registers every leaf of def with v so AutomaticEnv can
// override any key
func setDefaults(v *viper.Viper, def *model.Config) error {
	data, err := yaml.Marshal(def)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}

	// Keys omitted from YAML when empty still need registering
	for _, key := range []string{"llm.api_key", "llm.base_url", "llm.http_proxy", "llm.https_proxy", "search.api_key", "search.http_proxy", "search.https_proxy"} {
		v.SetDefault(key, "")
	}

	var walk func(prefix string, node map[string]interface{})
	walk = func(prefix string, node map[string]interface{}) {
		for k, val := range node {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if child, ok := val.(map[string]interface{}); ok && len(child) > 0 {
				walk(key, child)
				continue
			}
			v.SetDefault(key, val)
		}
	}
	walk("", tree)
	return nil
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if val := os.Getenv(n); val != "" {
			return val
		}
	}
	return ""
}
