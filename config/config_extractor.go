package config

import (
	"errors"
	"strings"

	"github.com/adrianliechti/studio/pkg/extractor"
	"github.com/adrianliechti/studio/pkg/extractor/docx"
	"github.com/adrianliechti/studio/pkg/extractor/epub"
	"github.com/adrianliechti/studio/pkg/extractor/markdown"
	"github.com/adrianliechti/studio/pkg/extractor/multi"
	"github.com/adrianliechti/studio/pkg/extractor/pdf"
	"github.com/adrianliechti/studio/pkg/extractor/text"
	"github.com/adrianliechti/studio/pkg/extractor/tika"
	"github.com/adrianliechti/studio/pkg/limiter"
	"github.com/adrianliechti/studio/pkg/otel"

	"golang.org/x/time/rate"
)

var builtinExtractors = []string{
	"docx",
	"pdf",
	"epub",
	"markdown",
	"text",
}

func (cfg *Config) RegisterExtractor(id string, p extractor.Provider) {
	if cfg.extractor == nil {
		cfg.extractor = make(map[string]extractor.Provider)
	}

	if _, ok := cfg.extractor[""]; !ok {
		cfg.extractor[""] = p
	}

	cfg.extractor[id] = p
}

func (cfg *Config) Extractor(id string) (extractor.Provider, error) {
	if cfg.extractor != nil {
		if c, ok := cfg.extractor[id]; ok {
			return c, nil
		}
	}

	return nil, errors.New("extractor not found: " + id)
}

type extractorConfig struct {
	Type string `yaml:"type"`

	URL string `yaml:"url"`

	Proxy *proxyConfig `yaml:"proxy"`

	Limit *int `yaml:"limit"`
}

type extractorContext struct {
	Limiter *rate.Limiter
}

func (cfg *Config) registerExtractors(f *configFile) error {
	var configs map[string]extractorConfig

	if err := f.Extractors.Decode(&configs); err != nil {
		return err
	}

	var ids []string

	for _, node := range f.Extractors.Content {
		if _, ok := configs[node.Value]; ok {
			ids = append(ids, node.Value)
		}
	}

	if len(ids) == 0 {
		configs = make(map[string]extractorConfig)

		for _, id := range builtinExtractors {
			configs[id] = extractorConfig{Type: id}
		}

		ids = builtinExtractors
	}

	var extractors []extractor.Provider

	for _, id := range ids {
		config := configs[id]

		context := extractorContext{
			Limiter: createLimiter(config.Limit),
		}

		extractor, err := createExtractor(config, context)

		if err != nil {
			return err
		}

		if _, ok := extractor.(limiter.Extractor); !ok {
			extractor = limiter.NewExtractor(context.Limiter, extractor)
		}

		if _, ok := extractor.(otel.Extractor); !ok {
			extractor = otel.NewExtractor(id, extractor)
		}

		extractors = append(extractors, extractor)

		cfg.RegisterExtractor(id, extractor)
	}

	if cfg.extractor != nil {
		delete(cfg.extractor, "")
	}

	cfg.RegisterExtractor("", multi.New(extractors...))

	return nil
}

func createExtractor(cfg extractorConfig, context extractorContext) (extractor.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "docx":
		return docx.New()

	case "pdf":
		return pdf.New()

	case "epub":
		return epub.New()

	case "markdown", "md":
		return markdown.New()

	case "text", "txt":
		return text.New()

	case "tika":
		return tikaExtractor(cfg)

	default:
		return nil, errors.New("invalid extractor type: " + cfg.Type)
	}
}

func tikaExtractor(cfg extractorConfig) (extractor.Provider, error) {
	var options []tika.Option

	client, err := cfg.Proxy.proxyClient()

	if err != nil {
		return nil, err
	}

	if client != nil {
		options = append(options, tika.WithClient(client))
	}

	return tika.New(cfg.URL, options...)
}
