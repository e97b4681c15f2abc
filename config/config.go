package config

import (
	"bytes"
	"os"
	"time"

	"github.com/adrianliechti/studio/pkg/auth"
	"github.com/adrianliechti/studio/pkg/exporter"
	"github.com/adrianliechti/studio/pkg/extractor"
	"github.com/adrianliechti/studio/pkg/provider"
	"github.com/adrianliechti/studio/pkg/translator"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	Storage string

	Jobs JobsConfig

	Languages []string

	Authorizers []auth.Provider

	completer  map[string]provider.Completer
	extractor  map[string]extractor.Provider
	translator map[string]translator.Provider
	exporter   map[string]exporter.Provider
}

type JobsConfig struct {
	Workers int
	Queue   int

	Size      int
	Retention time.Duration
}

func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	c := &Config{
		Address: ":8000",
		Storage: "data",

		Jobs: JobsConfig{
			Workers: 4,
			Queue:   100,
		},

		Languages: file.Languages,
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if file.Storage.Path != "" {
		c.Storage = file.Storage.Path
	}

	if file.Jobs.Workers > 0 {
		c.Jobs.Workers = file.Jobs.Workers
	}

	if file.Jobs.Queue > 0 {
		c.Jobs.Queue = file.Jobs.Queue
	}

	c.Jobs.Size = file.Jobs.Size
	c.Jobs.Retention = file.Jobs.Retention

	if err := c.registerAuthorizer(file); err != nil {
		return nil, err
	}

	if err := c.registerProviders(file); err != nil {
		return nil, err
	}

	if err := c.registerExtractors(file); err != nil {
		return nil, err
	}

	if err := c.registerTranslators(file); err != nil {
		return nil, err
	}

	if err := c.registerExporters(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	Storage storageConfig `yaml:"storage"`
	Jobs    jobsConfig    `yaml:"jobs"`

	Languages []string `yaml:"languages"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Providers []providerConfig `yaml:"providers"`

	Extractors yaml.Node `yaml:"extractors"`

	Translator  string    `yaml:"translator"`
	Translators yaml.Node `yaml:"translators"`

	Exporters yaml.Node `yaml:"exporters"`
}

type storageConfig struct {
	Path string `yaml:"path"`
}

type jobsConfig struct {
	Workers int `yaml:"workers"`
	Queue   int `yaml:"queue"`

	Size      int           `yaml:"size"`
	Retention time.Duration `yaml:"retention"`
}

func parseFile(path string) (*configFile, error) {
	var data []byte

	if path != "" {
		d, err := os.ReadFile(path)

		if err != nil {
			return nil, err
		}

		data = d
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	if len(bytes.TrimSpace(data)) == 0 {
		return &config, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}
