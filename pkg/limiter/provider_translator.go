package limiter

import (
	"context"

	"github.com/adrianliechti/studio/pkg/translator"

	"golang.org/x/time/rate"
)

type Translator interface {
	Limiter
	translator.Provider
}

type limitedTranslator struct {
	limiter  *rate.Limiter
	provider translator.Provider
}

func NewTranslator(l *rate.Limiter, p translator.Provider) Translator {
	return &limitedTranslator{
		limiter:  l,
		provider: p,
	}
}

func (p *limitedTranslator) limiterSetup() {
}

func (p *limitedTranslator) Translate(ctx context.Context, text string, options *translator.TranslateOptions) (string, error) {
	if err := wait(ctx, p.limiter); err != nil {
		return "", err
	}

	return p.provider.Translate(ctx, text, options)
}
