package job

import (
	"slices"
	"time"
)

type Status string

const (
	StatusQueued      Status = "Queued"
	StatusExtracting  Status = "Extracting"
	StatusTranslating Status = "Translating"
	StatusExporting   Status = "Exporting"
	StatusCompleted   Status = "Completed"
	StatusFailed      Status = "Failed"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is the status record of one translation request.
type Job struct {
	ID       string
	Filename string

	Languages []string
	Formats   []string

	Status   Status
	Progress int
	Message  string

	Complete bool
	Error    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(id, filename string, languages, formats []string) Job {
	now := time.Now().UTC()

	return Job{
		ID:       id,
		Filename: filename,

		Languages: slices.Clone(languages),
		Formats:   slices.Clone(formats),

		Status:  StatusQueued,
		Message: "Waiting for a worker...",

		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Ready reports whether the artifacts of the job can be downloaded.
func (j Job) Ready() bool {
	return j.Complete && !j.Error
}

func (j Job) clone() Job {
	j.Languages = slices.Clone(j.Languages)
	j.Formats = slices.Clone(j.Formats)

	return j
}
