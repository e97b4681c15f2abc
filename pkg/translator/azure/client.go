package azure

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

var _ translator.Provider = (*Client)(nil)

type Client struct {
	client *http.Client

	url   string
	token string

	region string
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		url = "https://api.cognitive.microsofttranslator.com"
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

	target := "en"

	if options.Language != "" {
		l, ok := language.Lookup(options.Language)

		if !ok {
			return "", translator.ErrUnsupported
		}

		target = l.Code

		if target == "zh" {
			target = "zh-Hans"
		}
	}

	type bodyType struct {
		Text string `json:"Text"`
	}

	body := []bodyType{
		{
			Text: strings.TrimSpace(text),
		},
	}

	u, _ := url.Parse(strings.TrimRight(c.url, "/") + "/translator/text/v3.0/translate")

	query := u.Query()
	query.Set("to", target)
	query.Set("api-version", "3.0")

	u.RawQuery = query.Encode()

	r, _ := http.NewRequestWithContext(ctx, "POST", u.String(), jsonReader(body))
	r.Header.Add("Content-Type", "application/json")

	if c.token != "" {
		r.Header.Add("Ocp-Apim-Subscription-Key", c.token)
	}

	if c.region != "" {
		r.Header.Add("Ocp-Apim-Subscription-Region", c.region)
	}

	resp, err := c.client.Do(r)

	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", convertError(resp)
	}

	type resultType struct {
		DetectedLanguage struct {
			Language string  `json:"language"`
			Score    float64 `json:"score"`
		} `json:"detectedLanguage"`

		Translations []struct {
			Text string `json:"text"`
			To   string `json:"to"`
		} `json:"translations"`
	}

	var result []resultType

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if len(result) == 0 || len(result[0].Translations) == 0 {
		return "", errors.New("unable to translate content")
	}

	return result[0].Translations[0].Text, nil
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
