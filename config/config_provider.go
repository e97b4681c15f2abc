package config

import (
	"errors"
	"net/http"
	"strings"

	"github.com/adrianliechti/studio/pkg/limiter"
	"github.com/adrianliechti/studio/pkg/otel"
	"github.com/adrianliechti/studio/pkg/provider"
	"github.com/adrianliechti/studio/pkg/provider/anthropic"
	"github.com/adrianliechti/studio/pkg/provider/google"
	"github.com/adrianliechti/studio/pkg/provider/openai"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type providerConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Proxy *proxyConfig `yaml:"proxy"`

	Limit *int `yaml:"limit"`

	Models yaml.Node `yaml:"models"`
}

type modelConfig struct {
	ID string `yaml:"id"`

	Limit *int `yaml:"limit"`
}

type modelContext struct {
	ID string

	Client  *http.Client
	Limiter *rate.Limiter
}

func (cfg *Config) RegisterCompleter(id string, p provider.Completer) {
	if cfg.completer == nil {
		cfg.completer = make(map[string]provider.Completer)
	}

	if _, ok := cfg.completer[""]; !ok {
		cfg.completer[""] = p
	}

	cfg.completer[id] = p
}

func (cfg *Config) Completer(id string) (provider.Completer, error) {
	if cfg.completer != nil {
		if c, ok := cfg.completer[id]; ok {
			return c, nil
		}
	}

	return nil, errors.New("completer not found: " + id)
}

func (cfg *Config) registerProviders(f *configFile) error {
	for _, p := range f.Providers {
		var models map[string]modelConfig

		if err := p.Models.Decode(&models); err != nil {
			return err
		}

		client, err := p.Proxy.proxyClient()

		if err != nil {
			return err
		}

		for _, node := range p.Models.Content {
			id := node.Value

			config, ok := models[node.Value]

			if !ok {
				continue
			}

			if config.ID == "" {
				config.ID = id
			}

			limit := p.Limit

			if config.Limit != nil {
				limit = config.Limit
			}

			context := modelContext{
				ID: config.ID,

				Client:  client,
				Limiter: createLimiter(limit),
			}

			completer, err := createCompleter(p, context)

			if err != nil {
				return err
			}

			if _, ok := completer.(limiter.Completer); !ok {
				completer = limiter.NewCompleter(context.Limiter, completer)
			}

			if _, ok := completer.(otel.Completer); !ok {
				completer = otel.NewCompleter(strings.ToLower(p.Type), context.ID, completer)
			}

			cfg.RegisterCompleter(id, completer)
		}
	}

	return nil
}

func createCompleter(cfg providerConfig, model modelContext) (provider.Completer, error) {
	switch strings.ToLower(cfg.Type) {
	case "openai", "azure", "github", "ollama", "llama":
		return openaiCompleter(cfg, model)

	case "anthropic":
		return anthropicCompleter(cfg, model)

	case "gemini", "google":
		return googleCompleter(cfg, model)

	default:
		return nil, errors.New("invalid completer type: " + cfg.Type)
	}
}

func openaiCompleter(cfg providerConfig, model modelContext) (provider.Completer, error) {
	var options []openai.Option

	if cfg.Token != "" {
		options = append(options, openai.WithToken(cfg.Token))
	}

	if model.Client != nil {
		options = append(options, openai.WithClient(model.Client))
	}

	return openai.NewCompleter(cfg.URL, model.ID, options...)
}

func anthropicCompleter(cfg providerConfig, model modelContext) (provider.Completer, error) {
	var options []anthropic.Option

	if cfg.Token != "" {
		options = append(options, anthropic.WithToken(cfg.Token))
	}

	if model.Client != nil {
		options = append(options, anthropic.WithClient(model.Client))
	}

	return anthropic.NewCompleter(cfg.URL, model.ID, options...)
}

func googleCompleter(cfg providerConfig, model modelContext) (provider.Completer, error) {
	var options []google.Option

	if cfg.Token != "" {
		options = append(options, google.WithToken(cfg.Token))
	}

	if cfg.URL != "" {
		options = append(options, google.WithURL(cfg.URL))
	}

	if model.Client != nil {
		options = append(options, google.WithClient(model.Client))
	}

	return google.NewCompleter(model.ID, options...)
}
