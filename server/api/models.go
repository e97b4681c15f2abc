package api

import (
	"time"

	"github.com/adrianliechti/studio/pkg/job"
	"github.com/adrianliechti/studio/pkg/language"
)

type TranslateResponse struct {
	JobID string `json:"job_id"`
}

type StatusResponse struct {
	JobID    string `json:"job_id"`
	Filename string `json:"filename,omitempty"`

	Status   string `json:"status"`
	Progress int    `json:"progress"`

	Complete bool   `json:"complete"`
	Error    bool   `json:"error"`
	Message  string `json:"message,omitempty"`

	Languages []string `json:"languages"`
	Formats   []string `json:"formats,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toStatus(j *job.Job) StatusResponse {
	languages := make([]string, 0, len(j.Languages))

	for _, l := range j.Languages {
		languages = append(languages, language.Title(l))
	}

	return StatusResponse{
		JobID:    j.ID,
		Filename: j.Filename,

		Status:   string(j.Status),
		Progress: j.Progress,

		Complete: j.Complete,
		Error:    j.Error,
		Message:  j.Message,

		Languages: languages,
		Formats:   j.Formats,

		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`

	Title string `json:"title"`
}

type LanguagesResponse struct {
	Languages []Language `json:"languages"`
}

type FormatsResponse struct {
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}
