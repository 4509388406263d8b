package model

import (
	"strings"
	"time"
)

const (
	PlatformInstagram = "Instagram"
	PlatformFacebook  = "Facebook"
	PlatformBoth      = "Both"

	DefaultRegion   = "All India"
	DefaultPlatform = PlatformBoth
)

// Regions are the markets offered by the query form.
var Regions = []string{
	"All India",
	"North India (Delhi, Punjab, UP)",
	"South India (Karnataka, TN, Kerala, AP)",
	"West India (Maharashtra, Gujarat)",
	"East India (Bengal, Odisha, Bihar)",
	"Metro Tier 1 Only",
}

// Query is the input of one intelligence request.
type Query struct {
	Keyword   string `json:"keyword" validate:"required,max=200"`
	Region    string `json:"region" validate:"required,max=200"`
	Platform  string `json:"platform" validate:"required,oneof=Instagram Facebook Both"`
	RawAdText string `json:"rawAdText,omitempty" validate:"max=20000"`
}

// Normalize trims every field and fills in the form defaults.
func (q Query) Normalize() Query {
	q.Keyword = strings.TrimSpace(q.Keyword)
	q.Region = strings.TrimSpace(q.Region)
	q.Platform = strings.TrimSpace(q.Platform)
	q.RawAdText = strings.TrimSpace(q.RawAdText)
	if q.Region == "" {
		q.Region = DefaultRegion
	}
	if q.Platform == "" {
		q.Platform = DefaultPlatform
	}
	return q
}

// Report is one generated intelligence report stored in a user's history.
type Report struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	SchemaVersion int       `json:"schemaVersion"`
	Input         Query     `json:"input"`
	Result        Document  `json:"result"`
}

// NewReport stamps a generated document with its identity and query.
func NewReport(id string, createdAt time.Time, input Query, doc Document) Report {
	return Report{
		ID:            id,
		CreatedAt:     createdAt.UTC(),
		SchemaVersion: CurrentSchemaVersion,
		Input:         input,
		Result:        doc,
	}
}
