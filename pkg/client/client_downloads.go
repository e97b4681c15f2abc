package client

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
)

type DownloadService struct {
	Options []RequestOption
}

func NewDownloadService(opts ...RequestOption) DownloadService {
	return DownloadService{
		Options: opts,
	}
}

type Download struct {
	Name        string
	ContentType string

	Content io.ReadCloser
}

// New opens the artifact of a completed job. The caller closes Content.
func (r *DownloadService) New(ctx context.Context, id, language, format string, opts ...RequestOption) (*Download, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	u := c.URL + "/api/download/" + url.PathEscape(id) + "/" + url.PathEscape(language) + "?file_format=" + url.QueryEscape(format)

	req, _ := http.NewRequestWithContext(ctx, "GET", u, nil)

	c.authorize(req)

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, convertError(resp)
	}

	name := language + "." + format

	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}

	return &Download{
		Name:        name,
		ContentType: resp.Header.Get("Content-Type"),

		Content: resp.Body,
	}, nil
}
