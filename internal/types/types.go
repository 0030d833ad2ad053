package types

import (
	"time"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/scoring"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
)

// ID prefixes of stored records
const (
	ResumePrefix         = "res-"
	JobDescriptionPrefix = "jd-"
	JobPrefix            = "job-"
)

// Resume is an uploaded resume after segmentation
type Resume struct {
	ID        string             `json:"id"`
	Filename  string             `json:"filename,omitempty"`
	RawText   string             `json:"rawText"`
	Sections  *sections.Sections `json:"sections"`
	BlobKey   string             `json:"blobKey,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// JobDescription is a stored job posting and its extraction
type JobDescription struct {
	ID         string                `json:"id"`
	SourceURL  string                `json:"sourceUrl,omitempty"`
	RawText    string                `json:"rawText"`
	Extraction *jdextract.Extraction `json:"extraction"`
	CreatedAt  time.Time             `json:"createdAt"`
}

// JobStatus is the lifecycle state of an optimization job
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Done reports whether the job reached a terminal state
func (s JobStatus) Done() bool {
	return s == JobCompleted || s == JobFailed
}

// Job tracks one optimization run
type Job struct {
	ID        string              `json:"id"`
	ResumeID  string              `json:"resumeId"`
	JDID      string              `json:"jdId"`
	Status    JobStatus           `json:"status"`
	Progress  int                 `json:"progress"` // 0-100
	Step      string              `json:"step,omitempty"`
	Error     string              `json:"error,omitempty"`
	Result    *OptimizationResult `json:"result,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// SectionChange records one rewritten section
type SectionChange struct {
	Section sections.Name `json:"section"`
	Before  string        `json:"before"`
	After   string        `json:"after"`
}

// OptimizationResult is the outcome of rewriting a resume for a job description
type OptimizationResult struct {
	ResumeID  string             `json:"resumeId"`
	JDID      string             `json:"jdId"`
	Role      string             `json:"role,omitempty"`
	Optimized *sections.Sections `json:"optimizedResume"`
	Changes   []SectionChange    `json:"changes"`
	// Rewriter names the engine that produced the rewrite ("gemini" or "rules")
	Rewriter string `json:"rewriter"`

	ScoreBefore   int            `json:"scoreBefore"`
	ScoreAfter    int            `json:"atsScore"`
	Before        scoring.Result `json:"keywordsBefore"`
	After         scoring.Result `json:"keywordsAfter"`
	Report        scoring.Report `json:"report"`
	Improvements  []string       `json:"improvements"`
	RemainingGaps []string       `json:"remainingGaps"`
}

// OptimizeInput is the request to optimize a stored resume against a stored job description
type OptimizeInput struct {
	ResumeID string `json:"resumeId" validate:"required,startswith=res-"`
	JDID     string `json:"jdId" validate:"required,startswith=jd-"`
}

// ScoreOutput is the full assessment of a resume against a job description
type ScoreOutput struct {
	Role   string         `json:"role,omitempty"`
	Report scoring.Report `json:"report"`
	Gaps   scoring.Gaps   `json:"gaps"`
}
