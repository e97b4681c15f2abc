package storage

import (
	"io"
	"path"
	"sync"
)

// Handle references an uploaded source document. It is released exactly
// once; later calls return the result of the first release.
type Handle struct {
	Key  string
	Name string

	ContentType string

	store *FileStore

	once sync.Once
	err  error
}

func (h *Handle) Ext() string {
	if ext := path.Ext(h.Name); ext != "" {
		return ext
	}

	return path.Ext(h.Key)
}

func (h *Handle) Open() (io.ReadCloser, error) {
	return h.store.Open(h.Key)
}

func (h *Handle) Release() error {
	h.once.Do(func() {
		h.err = h.store.Delete(h.Key)
	})

	return h.err
}
