package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/adrianliechti/studio/pkg/provider"

	"google.golang.org/genai"
)

var _ provider.Completer = (*Completer)(nil)

type Completer struct {
	*Config
}

func NewCompleter(model string, options ...Option) (*Completer, error) {
	cfg := &Config{
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Completer{
		Config: cfg,
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	if options == nil {
		options = new(provider.CompleteOptions)
	}

	client, err := c.newClient(ctx)

	if err != nil {
		return nil, err
	}

	contents, err := convertContents(messages)

	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{}

	if system := provider.System(messages); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	if len(options.Stop) > 0 {
		config.StopSequences = options.Stop
	}

	if options.MaxTokens != nil {
		config.MaxOutputTokens = int32(*options.MaxTokens)
	}

	if options.Temperature != nil {
		config.Temperature = genai.Ptr(*options.Temperature)
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, config)

	if err != nil {
		return nil, convertError(err)
	}

	result := &provider.Completion{
		ID:    resp.ResponseID,
		Model: c.model,

		Message: &provider.Message{
			Role: provider.MessageRoleAssistant,
		},
	}

	if text := resp.Text(); text != "" {
		result.Message.Content = append(result.Message.Content, provider.TextContent(text))
	}

	if resp.UsageMetadata != nil {
		result.Usage = &provider.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	return result, nil
}

func convertContents(messages []provider.Message) ([]*genai.Content, error) {
	var result []*genai.Content

	for _, m := range messages {
		switch m.Role {
		case provider.MessageRoleSystem:
			continue

		case provider.MessageRoleUser:
			result = append(result, genai.NewContentFromText(m.Text(), genai.RoleUser))

		case provider.MessageRoleAssistant:
			result = append(result, genai.NewContentFromText(m.Text(), genai.RoleModel))

		default:
			return nil, fmt.Errorf("unsupported message role: %s", m.Role)
		}
	}

	return result, nil
}

func convertError(err error) error {
	var apierr genai.APIError

	if errors.As(err, &apierr) {
		return &provider.StatusError{
			StatusCode: apierr.Code,
			Err:        err,
		}
	}

	var apierrPtr *genai.APIError

	if errors.As(err, &apierrPtr) {
		return &provider.StatusError{
			StatusCode: apierrPtr.Code,
			Err:        err,
		}
	}

	return err
}
