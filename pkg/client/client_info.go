package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/adrianliechti/studio/server/api"
)

type Language = api.Language
type Formats = api.FormatsResponse

type LanguageService struct {
	Options []RequestOption
}

func NewLanguageService(opts ...RequestOption) LanguageService {
	return LanguageService{
		Options: opts,
	}
}

func (r *LanguageService) List(ctx context.Context, opts ...RequestOption) ([]Language, error) {
	var result api.LanguagesResponse

	if err := getJson(ctx, newRequestConfig(append(r.Options, opts...)...), "/api/languages", &result); err != nil {
		return nil, err
	}

	return result.Languages, nil
}

type FormatService struct {
	Options []RequestOption
}

func NewFormatService(opts ...RequestOption) FormatService {
	return FormatService{
		Options: opts,
	}
}

func (r *FormatService) List(ctx context.Context, opts ...RequestOption) (*Formats, error) {
	var result Formats

	if err := getJson(ctx, newRequestConfig(append(r.Options, opts...)...), "/api/formats", &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func getJson(ctx context.Context, c *RequestConfig, path string, v any) error {
	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+path, nil)

	c.authorize(req)

	resp, err := c.Client.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return convertError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
