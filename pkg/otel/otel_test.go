package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adrianliechti/studio/pkg/otel"
	"github.com/adrianliechti/studio/pkg/translator"

	"github.com/stretchr/testify/require"
)

type stubTranslator struct {
	err error
}

func (s stubTranslator) Translate(ctx context.Context, text string, options *translator.TranslateOptions) (string, error) {
	return "x" + text, s.err
}

func TestTranslatorPassesThrough(t *testing.T) {
	tr := otel.NewTranslator("llm", "gpt-4o-mini", stubTranslator{})

	result, err := tr.Translate(context.Background(), "y", &translator.TranslateOptions{Language: "spanish"})
	require.NoError(t, err)
	require.Equal(t, "xy", result)

	tr = otel.NewTranslator("llm", "gpt-4o-mini", stubTranslator{err: errors.New("failed")})

	_, err = tr.Translate(context.Background(), "y", nil)
	require.EqualError(t, err, "failed")
}

func TestSetupDisabled(t *testing.T) {
	otel.EnableTelemetry = false

	shutdown, err := otel.Setup(context.Background(), "studio", "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestJobMetricsNil(t *testing.T) {
	var m *otel.JobMetrics
	m.Finished(context.Background(), "Completed", 1, time.Second)

	otel.NewJobMetrics().Finished(context.Background(), "Failed", 2, time.Second)
}
