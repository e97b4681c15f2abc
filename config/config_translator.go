package config

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/adrianliechti/studio/pkg/limiter"
	"github.com/adrianliechti/studio/pkg/otel"
	"github.com/adrianliechti/studio/pkg/provider"
	"github.com/adrianliechti/studio/pkg/router/roundrobin"
	"github.com/adrianliechti/studio/pkg/translator"
	"github.com/adrianliechti/studio/pkg/translator/azure"
	"github.com/adrianliechti/studio/pkg/translator/deepl"
	"github.com/adrianliechti/studio/pkg/translator/llm"
	"github.com/adrianliechti/studio/pkg/translator/retry"

	"golang.org/x/time/rate"
)

func (cfg *Config) RegisterTranslator(id string, p translator.Provider) {
	if cfg.translator == nil {
		cfg.translator = make(map[string]translator.Provider)
	}

	if _, ok := cfg.translator[""]; !ok {
		cfg.translator[""] = p
	}

	cfg.translator[id] = p
}

func (cfg *Config) Translator(id string) (translator.Provider, error) {
	if cfg.translator != nil {
		if t, ok := cfg.translator[id]; ok {
			return t, nil
		}
	}

	return nil, errors.New("translator not found: " + id)
}

type translatorConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Region string `yaml:"region"`

	Model       string   `yaml:"model"`
	Temperature *float32 `yaml:"temperature"`

	Proxy *proxyConfig `yaml:"proxy"`

	Limit *int `yaml:"limit"`

	Retries *int          `yaml:"retries"`
	Timeout time.Duration `yaml:"timeout"`

	Translators []string `yaml:"translators"`
}

type translatorContext struct {
	Completer provider.Completer

	Translators []translator.Provider

	Client  *http.Client
	Limiter *rate.Limiter
}

func (cfg *Config) registerTranslators(f *configFile) error {
	var configs map[string]translatorConfig

	if err := f.Translators.Decode(&configs); err != nil {
		return err
	}

	for _, node := range f.Translators.Content {
		id := node.Value

		config, ok := configs[node.Value]

		if !ok {
			continue
		}

		client, err := config.Proxy.proxyClient()

		if err != nil {
			return err
		}

		context := translatorContext{
			Client:  client,
			Limiter: createLimiter(config.Limit),
		}

		if p, err := cfg.Completer(config.Model); err == nil {
			context.Completer = p
		}

		for _, t := range config.Translators {
			p, err := cfg.Translator(t)

			if err != nil {
				return err
			}

			context.Translators = append(context.Translators, p)
		}

		translator, err := createTranslator(config, context)

		if err != nil {
			return err
		}

		cfg.RegisterTranslator(id, wrapTranslator(config, context, translator))
	}

	if f.Translator != "" {
		t, err := cfg.Translator(f.Translator)

		if err != nil {
			return err
		}

		cfg.translator[""] = t
	}

	if _, err := cfg.Translator(""); err != nil {
		// fall back to the default completer when no translator is configured
		completer, err := cfg.Completer("")

		if err != nil {
			return nil
		}

		config := translatorConfig{
			Type: "llm",
		}

		context := translatorContext{
			Completer: completer,
		}

		translator, err := createTranslator(config, context)

		if err != nil {
			return err
		}

		cfg.RegisterTranslator("llm", wrapTranslator(config, context, translator))
	}

	return nil
}

func wrapTranslator(cfg translatorConfig, context translatorContext, t translator.Provider) translator.Provider {
	if _, ok := t.(limiter.Translator); !ok {
		t = limiter.NewTranslator(context.Limiter, t)
	}

	if _, ok := t.(otel.Translator); !ok {
		model := cfg.Model

		if model == "" {
			model = strings.ToLower(cfg.Type)
		}

		t = otel.NewTranslator(strings.ToLower(cfg.Type), model, t)
	}

	// routed translators retry on their own
	if len(context.Translators) > 0 {
		return t
	}

	var options []retry.Option

	if cfg.Retries != nil {
		options = append(options, retry.WithTries(*cfg.Retries))
	}

	if cfg.Timeout > 0 {
		options = append(options, retry.WithTimeout(cfg.Timeout))
	}

	return retry.NewTranslator(t, options...)
}

func createTranslator(cfg translatorConfig, context translatorContext) (translator.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "llm":
		return llmTranslator(cfg, context)

	case "azure":
		return azureTranslator(cfg, context)

	case "deepl":
		return deeplTranslator(cfg, context)

	case "roundrobin", "router":
		return roundrobin.NewTranslator(context.Translators...)

	default:
		return nil, errors.New("invalid translator type: " + cfg.Type)
	}
}

func llmTranslator(cfg translatorConfig, context translatorContext) (translator.Provider, error) {
	if context.Completer == nil {
		return nil, errors.New("llm translator: completer not found: " + cfg.Model)
	}

	var options []llm.Option

	if cfg.Temperature != nil {
		options = append(options, llm.WithTemperature(*cfg.Temperature))
	}

	return llm.New(context.Completer, options...)
}

func azureTranslator(cfg translatorConfig, context translatorContext) (translator.Provider, error) {
	var options []azure.Option

	if cfg.Token != "" {
		options = append(options, azure.WithToken(cfg.Token))
	}

	if cfg.Region != "" {
		options = append(options, azure.WithRegion(cfg.Region))
	}

	if context.Client != nil {
		options = append(options, azure.WithClient(context.Client))
	}

	return azure.New(cfg.URL, options...)
}

func deeplTranslator(cfg translatorConfig, context translatorContext) (translator.Provider, error) {
	var options []deepl.Option

	if cfg.Token != "" {
		options = append(options, deepl.WithToken(cfg.Token))
	}

	if context.Client != nil {
		options = append(options, deepl.WithClient(context.Client))
	}

	return deepl.New(cfg.URL, options...)
}
