package config

import (
	"strings"

	"github.com/ppiankov/verifact/internal/llm"
	"github.com/ppiankov/verifact/internal/model"
)

// Credentials are the secrets the gateways need
type Credentials struct {
	SearchAPIKey   string
	JudgmentAPIKey string

	// JudgmentEnvVar names the judgment key variable; empty when the
	// provider needs none
	JudgmentEnvVar string
}

// CredentialsFrom extracts the credentials from a loaded config
func CredentialsFrom(cfg *model.Config) Credentials {
	return Credentials{
		SearchAPIKey:   cfg.Search.APIKey,
		JudgmentAPIKey: cfg.LLM.APIKey,
		JudgmentEnvVar: llm.CredentialEnvVar(cfg.LLM.Provider),
	}
}

// Validate returns one *model.ConfigurationError naming every missing key
func (c Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.SearchAPIKey) == "" {
		missing = append(missing, SearchKeyEnv)
	}
	if c.JudgmentEnvVar != "" && strings.TrimSpace(c.JudgmentAPIKey) == "" {
		missing = append(missing, c.JudgmentEnvVar)
	}

	if len(missing) > 0 {
		return &model.ConfigurationError{MissingKeys: missing}
	}
	return nil
}
