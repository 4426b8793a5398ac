package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/converse/ai"
)

// fileConfig is the optional YAML configuration. Flags override it.
type fileConfig struct {
	DataDir        string `yaml:"data_dir"`
	EmbeddingHost  string `yaml:"embedding_host"`
	GeneratorHost  string `yaml:"generator_host"`
	EmbeddingModel string `yaml:"embedding_model"`
	GeneratorModel string `yaml:"generator_model"`
	APIKey         string `yaml:"api_key"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// aiConfig builds the provider configuration from file values and flag
// overrides. Empty strings leave the defaults in place.
func (c *fileConfig) aiConfig(embeddingModel string) *ai.Config {
	var opts []ai.ConfigOption
	if c.EmbeddingHost != "" {
		opts = append(opts, ai.WithEmbeddingHost(c.EmbeddingHost))
	}
	if c.GeneratorHost != "" {
		opts = append(opts, ai.WithGeneratorHost(c.GeneratorHost))
	}
	if c.EmbeddingModel != "" {
		opts = append(opts, ai.WithEmbeddingModel(c.EmbeddingModel))
	}
	if c.GeneratorModel != "" {
		opts = append(opts, ai.WithGeneratorModel(c.GeneratorModel))
	}
	if c.APIKey != "" {
		opts = append(opts, ai.WithAPIKey(c.APIKey))
	}
	if embeddingModel != "" {
		opts = append(opts, ai.WithEmbeddingModel(embeddingModel))
	}
	return ai.NewConfig(opts...)
}
