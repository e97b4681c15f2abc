package config

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/adrianliechti/studio/pkg/exporter"
	"github.com/adrianliechti/studio/pkg/exporter/docx"
	"github.com/adrianliechti/studio/pkg/exporter/epub"
	"github.com/adrianliechti/studio/pkg/exporter/pdf"
	"github.com/adrianliechti/studio/pkg/exporter/text"
	"github.com/adrianliechti/studio/pkg/language"
	"github.com/adrianliechti/studio/pkg/limiter"
	"github.com/adrianliechti/studio/pkg/otel"
)

var builtinExporters = []string{
	"docx",
	"pdf",
	"epub",
	"txt",
}

func (cfg *Config) RegisterExporter(format string, p exporter.Provider) {
	if cfg.exporter == nil {
		cfg.exporter = make(map[string]exporter.Provider)
	}

	cfg.exporter[format] = p
}

// Exporters returns the registered exporters keyed by output format.
func (cfg *Config) Exporters() map[string]exporter.Provider {
	return maps.Clone(cfg.exporter)
}

// Formats lists the configured output formats in declaration order.
func (cfg *Config) Formats() []string {
	var result []string

	for _, f := range builtinExporters {
		if _, ok := cfg.exporter[f]; ok {
			result = append(result, f)
		}
	}

	for _, f := range slices.Sorted(maps.Keys(cfg.exporter)) {
		if !slices.Contains(result, f) {
			result = append(result, f)
		}
	}

	return result
}

type exporterConfig struct {
	Type string `yaml:"type"`

	Fonts map[string]string `yaml:"fonts"`

	Limit *int `yaml:"limit"`
}

func (cfg *Config) registerExporters(f *configFile) error {
	var configs map[string]exporterConfig

	if err := f.Exporters.Decode(&configs); err != nil {
		return err
	}

	var formats []string

	for _, node := range f.Exporters.Content {
		if _, ok := configs[node.Value]; ok {
			formats = append(formats, node.Value)
		}
	}

	if len(formats) == 0 {
		formats = builtinExporters
	}

	for _, format := range formats {
		config := configs[format]

		if config.Type == "" {
			config.Type = format
		}

		exporter, err := createExporter(config)

		if err != nil {
			return err
		}

		if _, ok := exporter.(limiter.Exporter); !ok {
			exporter = limiter.NewExporter(createLimiter(config.Limit), exporter)
		}

		if _, ok := exporter.(otel.Exporter); !ok {
			exporter = otel.NewExporter(format, exporter)
		}

		cfg.RegisterExporter(strings.ToLower(format), exporter)
	}

	return nil
}

func createExporter(cfg exporterConfig) (exporter.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "docx":
		return docx.New()

	case "pdf":
		return pdfExporter(cfg)

	case "epub":
		return epub.New()

	case "txt", "text":
		return text.New()

	default:
		return nil, errors.New("invalid exporter type: " + cfg.Type)
	}
}

func pdfExporter(cfg exporterConfig) (exporter.Provider, error) {
	var options []pdf.Option

	for script, path := range cfg.Fonts {
		options = append(options, pdf.WithFont(language.Script(strings.ToLower(script)), path))
	}

	return pdf.New(options...)
}
