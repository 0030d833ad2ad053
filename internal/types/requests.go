package types

import (
	"github.com/go-playground/validator/v10"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
)

var validate = validator.New()

// Validate checks the optimize request
func (r *OptimizeInput) Validate() error {
	return validate.Struct(r)
}

// ExtractJDRequest carries a pasted job description or a posting URL
type ExtractJDRequest struct {
	Text string `json:"text" validate:"required_without=URL"`
	URL  string `json:"url" validate:"omitempty,url,startswith=http"`
}

// Validate checks that text or a URL is present
func (r *ExtractJDRequest) Validate() error {
	return validate.Struct(r)
}

// TextRequest carries raw text for the stateless segment and extract endpoints
type TextRequest struct {
	Text string `json:"text" validate:"required"`
}

// Validate checks that text is present
func (r *TextRequest) Validate() error {
	return validate.Struct(r)
}

// ScoreRequest carries the resume and job description to score. Either
// side may be given as raw text or as a stored record ID
type ScoreRequest struct {
	Resume         string `json:"resume" validate:"required_without=ResumeID"`
	ResumeID       string `json:"resumeId" validate:"omitempty,startswith=res-"`
	JobDescription string `json:"jobDescription" validate:"required_without=JDID"`
	JDID           string `json:"jdId" validate:"omitempty,startswith=jd-"`
}

// Validate checks that both sides are present
func (r *ScoreRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateSectionsRequest replaces the section bodies of a stored resume
type UpdateSectionsRequest struct {
	Sections map[string]string `json:"sections" validate:"required,min=1,dive,keys,required,endkeys"`
}

// Validate checks that at least one known section is given
func (r *UpdateSectionsRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	for name := range r.Sections {
		if _, ok := sections.ParseName(name); !ok {
			return &UnknownSectionError{Name: name}
		}
	}
	return nil
}

// UnknownSectionError reports a section name outside the recognized set
type UnknownSectionError struct {
	Name string
}

func (e *UnknownSectionError) Error() string {
	return "unknown section " + `"` + e.Name + `"`
}

// UploadResponse is returned after a resume is stored
type UploadResponse struct {
	ResumeID string             `json:"resumeId"`
	Filename string             `json:"filename,omitempty"`
	Sections *sections.Sections `json:"sections"`
	Preview  string             `json:"rawText"`
}

// JobStatusResponse reports job progress without the result
type JobStatusResponse struct {
	JobID    string    `json:"jobId"`
	Status   JobStatus `json:"status"`
	Progress int       `json:"progress"`
	Step     string    `json:"step,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// FormattedResumeResponse is a markdown rendering with highlighted keywords
type FormattedResumeResponse struct {
	ResumeID        string   `json:"resumeId"`
	FormattedResume string   `json:"formattedResume"`
	MatchedKeywords []string `json:"matchedKeywords"`
}
