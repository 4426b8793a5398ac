package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"INFO", false},
		{"verbose", true},
		{"", true},
	}

	defer slog.SetDefault(slog.Default())

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			app := &cli.App{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-level"},
				},
				Action: setupLogger,
			}
			err := app.Run([]string{"converse", "--log-level", tt.level})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `data_dir: /var/lib/converse
embedding_host: http://embed.local:11434/v1
generator_host: http://gen.local:11434/v1
embedding_model: all-MiniLM-L12-v2
generator_model: qwen2.5:3b
api_key: secret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/converse", cfg.DataDir)
	assert.Equal(t, "http://embed.local:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "qwen2.5:3b", cfg.GeneratorModel)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFileConfigAIOverride(t *testing.T) {
	cfg := &fileConfig{EmbeddingModel: "from-file"}

	aiCfg := cfg.aiConfig("from-flag")
	assert.Equal(t, "from-flag", aiCfg.EmbeddingModel, "flag overrides file")

	aiCfg = cfg.aiConfig("")
	assert.Equal(t, "from-file", aiCfg.EmbeddingModel)
}
