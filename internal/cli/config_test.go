package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/ppiankov/verifact/internal/config"
	"github.com/ppiankov/verifact/internal/model"
)

func TestWriteDefaultConfig_RoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Verifact Configuration File") {
		t.Errorf("missing header: %q", string(data[:40]))
	}

	v := viper.New()
	if err := config.Setup(v, path); err != nil {
		t.Fatal(err)
	}
	if err := config.ReadFile(v); err != nil {
		t.Fatalf("generated file does not parse: %v", err)
	}
	cfg, err := config.Build(v)
	if err != nil {
		t.Fatalf("generated file does not validate: %v", err)
	}

	def := model.DefaultConfig()
	if cfg.LLM.Model != def.LLM.Model || cfg.Concurrency.Workers != def.Concurrency.Workers {
		t.Errorf("got llm.model=%q workers=%d, want defaults", cfg.LLM.Model, cfg.Concurrency.Workers)
	}
}

func TestWriteDefaultConfig_NeverOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  model: mine\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Fatal("expected an error for an existing file")
	}

	data, _ := os.ReadFile(path)
	if string(data) != "llm:\n  model: mine\n" {
		t.Errorf("existing file was modified: %q", string(data))
	}
}
