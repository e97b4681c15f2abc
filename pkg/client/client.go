package client

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

type Client struct {
	Jobs      JobService
	Downloads DownloadService

	Languages LanguageService
	Formats   FormatService
}

func New(url string, opts ...RequestOption) *Client {
	opts = append(opts, WithURL(url))

	return &Client{
		Jobs:      NewJobService(opts...),
		Downloads: NewDownloadService(opts...),

		Languages: NewLanguageService(opts...),
		Formats:   NewFormatService(opts...),
	}
}

type RequestConfig struct {
	URL   string
	Token string

	Client *http.Client
}

type RequestOption func(*RequestConfig)

func WithURL(url string) RequestOption {
	return func(c *RequestConfig) {
		c.URL = strings.TrimRight(url, "/")
	}
}

func WithToken(token string) RequestOption {
	return func(c *RequestConfig) {
		c.Token = token
	}
}

func WithClient(client *http.Client) RequestOption {
	return func(c *RequestConfig) {
		c.Client = client
	}
}

func newRequestConfig(opts ...RequestOption) *RequestConfig {
	c := &RequestConfig{
		Client: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *RequestConfig) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if text := strings.TrimSpace(string(data)); text != "" {
		return errors.New(resp.Status + ": " + text)
	}

	return errors.New(resp.Status)
}
