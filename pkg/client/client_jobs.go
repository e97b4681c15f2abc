package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adrianliechti/studio/server/api"
)

type Job = api.StatusResponse

type JobService struct {
	Options []RequestOption
}

func NewJobService(opts ...RequestOption) JobService {
	return JobService{
		Options: opts,
	}
}

type JobRequest struct {
	Name   string
	Reader io.Reader

	Languages []string
	Formats   []string
}

// New uploads a document and returns the id of the accepted job.
func (r *JobService) New(ctx context.Context, input JobRequest, opts ...RequestOption) (string, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	var data bytes.Buffer
	w := multipart.NewWriter(&data)

	file, err := w.CreateFormFile("file", input.Name)

	if err != nil {
		return "", err
	}

	if _, err := io.Copy(file, input.Reader); err != nil {
		return "", err
	}

	w.Close()

	query := url.Values{}

	if len(input.Languages) > 0 {
		query.Set("languages", strings.Join(input.Languages, ","))
	}

	if len(input.Formats) > 0 {
		query.Set("formats", strings.Join(input.Formats, ","))
	}

	u := c.URL + "/api/translate"

	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, _ := http.NewRequestWithContext(ctx, "POST", u, &data)
	req.Header.Set("Content-Type", w.FormDataContentType())

	c.authorize(req)

	resp, err := c.Client.Do(req)

	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return "", convertError(resp)
	}

	var result api.TranslateResponse

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.JobID, nil
}

func (r *JobService) Get(ctx context.Context, id string, opts ...RequestOption) (*Job, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/api/status/"+url.PathEscape(id), nil)

	c.authorize(req)

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var result Job

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Wait polls the job until it completed or failed. fn, when set, receives
// every observed state.
func (r *JobService) Wait(ctx context.Context, id string, interval time.Duration, fn func(*Job), opts ...RequestOption) (*Job, error) {
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := r.Get(ctx, id, opts...)

		if err != nil {
			return nil, err
		}

		if fn != nil {
			fn(job)
		}

		if job.Complete {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-ticker.C:
		}
	}
}
