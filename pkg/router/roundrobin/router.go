package roundrobin

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/adrianliechti/studio/pkg/router"
	"github.com/adrianliechti/studio/pkg/translator"
)

var _ translator.Provider = (*Translator)(nil)

// Translator spreads calls randomly over the healthy translators. A
// translator that keeps failing is skipped until its circuit recovers.
type Translator struct {
	translators []translator.Provider
	stats       []*router.ProviderStats

	failureThreshold int
	recoveryTimeout  time.Duration
}

func NewTranslator(translators ...translator.Provider) (*Translator, error) {
	if len(translators) == 0 {
		return nil, errors.New("at least one translator is required")
	}

	stats := make([]*router.ProviderStats, len(translators))

	for i := range stats {
		stats[i] = router.NewProviderStats()
	}

	return &Translator{
		translators: translators,
		stats:       stats,

		failureThreshold: router.DefaultFailureThreshold,
		recoveryTimeout:  router.DefaultRecoveryTimeout,
	}, nil
}

func (t *Translator) Translate(ctx context.Context, text string, options *translator.TranslateOptions) (string, error) {
	index := t.selectProvider()

	stats := t.stats[index]

	stats.AddInflight(1)
	defer stats.AddInflight(-1)

	result, err := t.translators[index].Translate(ctx, text, options)

	switch {
	case err == nil:
		stats.RecordSuccess()

	case errors.Is(err, translator.ErrUnsupported), ctx.Err() != nil:
		// the provider itself is fine

	default:
		stats.RecordFailure(t.failureThreshold)
	}

	return result, err
}

func (t *Translator) selectProvider() int {
	candidates := make([]int, 0, len(t.translators))

	for i, stat := range t.stats {
		if stat.IsAvailable(t.recoveryTimeout) {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) == 0 {
		return t.fallbackProvider()
	}

	return candidates[rand.IntN(len(candidates))]
}

// fallbackProvider probes the provider that failed least recently when
// every circuit is open.
func (t *Translator) fallbackProvider() int {
	best := 0

	var oldest time.Time

	for i, stat := range t.stats {
		last := stat.LastFailure()

		if i == 0 || last.Before(oldest) {
			oldest = last
			best = i
		}
	}

	t.stats[best].SetHalfOpen()

	return best
}
