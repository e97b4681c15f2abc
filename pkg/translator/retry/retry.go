package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/adrianliechti/studio/pkg/provider"
	"github.com/adrianliechti/studio/pkg/translator"

	"github.com/cenkalti/backoff/v5"
)

var _ translator.Provider = (*Translator)(nil)

// Translator retries transient failures of the wrapped translator with
// exponential backoff. Every attempt is bounded by its own timeout.
type Translator struct {
	provider translator.Provider

	tries    uint
	timeout  time.Duration
	interval time.Duration
}

type Option func(*Translator)

func WithTries(tries int) Option {
	return func(t *Translator) {
		if tries > 0 {
			t.tries = uint(tries)
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(t *Translator) {
		t.timeout = timeout
	}
}

func WithInterval(interval time.Duration) Option {
	return func(t *Translator) {
		t.interval = interval
	}
}

func NewTranslator(p translator.Provider, options ...Option) *Translator {
	t := &Translator{
		provider: p,

		tries:    5,
		timeout:  180 * time.Second,
		interval: 2 * time.Second,
	}

	for _, option := range options {
		option(t)
	}

	return t
}

func (t *Translator) Translate(ctx context.Context, text string, options *translator.TranslateOptions) (string, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.interval

	attempt := 0

	operation := func() (string, error) {
		attempt++

		result, err := t.translate(ctx, text, options)

		if err == nil {
			return result, nil
		}

		if ctx.Err() != nil || !retryable(err) {
			return "", backoff.Permanent(err)
		}

		slog.WarnContext(ctx, "translation attempt failed", "attempt", attempt, "error", err)

		return "", err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(t.tries),
	)
}

func (t *Translator) translate(ctx context.Context, text string, options *translator.TranslateOptions) (string, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	return t.provider.Translate(ctx, text, options)
}

func retryable(err error) bool {
	if errors.Is(err, translator.ErrUnsupported) || errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *provider.StatusError

	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}

	return true
}
