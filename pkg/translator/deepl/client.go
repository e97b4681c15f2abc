package deepl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/adrianliechti/studio/pkg/language"
	"github.com/adrianliechti/studio/pkg/provider"
	"github.com/adrianliechti/studio/pkg/translator"
)

var (
	_ translator.Provider = (*Client)(nil)
)

type Client struct {
	client *http.Client

	url   string
	token string
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		url = "https://api-free.deepl.com"
	}

	c := &Client{
		client: http.DefaultClient,

		url: url,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Translate(ctx context.Context, text string, options *translator.TranslateOptions) (string, error) {
	if options == nil {
		options = new(translator.TranslateOptions)
	}

	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	target, err := targetLanguage(options.Language)

	if err != nil {
		return "", err
	}

	type bodyType struct {
		Text       []string `json:"text"`
		TargetLang string   `json:"target_lang"`
	}

	body := bodyType{
		Text: []string{
			strings.TrimSpace(text),
		},

		TargetLang: target,
	}

	u, _ := url.JoinPath(c.url, "/v2/translate")
	r, _ := http.NewRequestWithContext(ctx, "POST", u, jsonReader(body))
	r.Header.Add("Authorization", "DeepL-Auth-Key "+c.token)
	r.Header.Add("Content-Type", "application/json")

	resp, err := c.client.Do(r)

	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", convertError(resp)
	}

	type resultType struct {
		Translations []struct {
			DetectedSourceLanguage string `json:"detected_source_language"`
			Text                   string `json:"text"`
		} `json:"translations"`
	}

	var result resultType

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if len(result.Translations) == 0 {
		return "", errors.New("unable to translate content")
	}

	return result.Translations[0].Text, nil
}

func targetLanguage(name string) (string, error) {
	if name == "" {
		return "EN-US", nil
	}

	l, ok := language.Lookup(name)

	if !ok {
		return "", translator.ErrUnsupported
	}

	switch l.Code {
	case "pt":
		return "PT-PT", nil
	case "hi":
		// not offered by DeepL
		return "", translator.ErrUnsupported
	}

	return strings.ToUpper(l.Code), nil
}

func jsonReader(v any) io.Reader {
	b := new(bytes.Buffer)

	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
	return b
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	err := errors.New(http.StatusText(resp.StatusCode))

	if len(data) > 0 {
		err = errors.New(strings.TrimSpace(string(data)))
	}

	return &provider.StatusError{
		StatusCode: resp.StatusCode,
		Err:        err,
	}
}
