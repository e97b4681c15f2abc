package llm

import (
	"context"
	"strings"

	"github.com/adrianliechti/studio/pkg/language"
	"github.com/adrianliechti/studio/pkg/provider"
	"github.com/adrianliechti/studio/pkg/translator"
)

var _ translator.Provider = (*Client)(nil)

type Client struct {
	completer provider.Completer

	temperature float32
}

type Option func(*Client)

func WithTemperature(temperature float32) Option {
	return func(c *Client) {
		c.temperature = temperature
	}
}

func New(completer provider.Completer, options ...Option) (*Client, error) {
	c := &Client{
		completer: completer,

		temperature: 0.1,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Translate(ctx context.Context, text string, options *translator.TranslateOptions) (string, error) {
	if options == nil {
		options = new(translator.TranslateOptions)
	}

	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	target := language.Title(options.Language)

	if target == "" {
		target = "English"
	}

	messages := []provider.Message{
		provider.SystemMessage(systemPrompt(target)),
		provider.UserMessage("Translate this text into " + target + ":\n\n" + text),
	}

	completion, err := c.completer.Complete(ctx, messages, &provider.CompleteOptions{
		Temperature: &c.temperature,
	})

	if err != nil {
		return "", err
	}

	return cleanOutput(completion.Message.Text()), nil
}

func systemPrompt(target string) string {
	return strings.Join([]string{
		"You are a professional translator.",
		"Target Language: " + target,
		"CRITICAL RULES:",
		"1. Output ONLY the translated text.",
		"2. Do NOT provide explanations or notes.",
		"3. Preserve paragraph breaks and punctuation.",
		"4. Maintain tone of the source.",
	}, "\n")
}
