package pdf

import (
	"github.com/adrianliechti/studio/pkg/language"
)

type Option func(*Exporter)

// WithFont registers a TrueType font file used for languages written in
// the given script.
func WithFont(script language.Script, path string) Option {
	return func(e *Exporter) {
		if path == "" {
			return
		}

		e.fonts[script] = path
	}
}
