package translator

import (
	"context"
	"errors"
)

type Provider interface {
	Translate(ctx context.Context, text string, options *TranslateOptions) (string, error)
}

var (
	ErrUnsupported = errors.New("unsupported language")
)

type TranslateOptions struct {
	// Language is the canonical target language name, e.g. "spanish".
	Language string
}
