package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// CurrentSchemaVersion is the layout written for every new report.
//
// Version history:
//
//	(untagged) legacy browser layout: flat document, epoch-millisecond timestamp
//	2          document nested under "result", RFC 3339 createdAt
const CurrentSchemaVersion = 2

// ErrUnsupportedSchema is returned when a stored report carries a schema
// version this build cannot read.
var ErrUnsupportedSchema = errors.New("unsupported report schema version")

type legacyReport struct {
	ID        string `json:"id"`
	Timestamp *int64 `json:"timestamp"`
	Input     Query  `json:"input"`
	Document
}

// UnmarshalJSON decodes the current layout and upgrades untagged legacy
// records. Any other version is rejected.
func (r *Report) UnmarshalJSON(data []byte) error {
	var probe struct {
		SchemaVersion *int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	if probe.SchemaVersion == nil {
		var legacy legacyReport
		if err := json.Unmarshal(data, &legacy); err != nil {
			return fmt.Errorf("decode legacy report: %w", err)
		}
		*r = upgradeLegacy(legacy)
		return nil
	}

	if v := *probe.SchemaVersion; v != CurrentSchemaVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedSchema, v)
	}

	type alias Report
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = Report(a)
	return nil
}

// upgradeLegacy leaves CreatedAt zero when the record has no timestamp.
func upgradeLegacy(l legacyReport) Report {
	r := Report{
		ID:            l.ID,
		SchemaVersion: CurrentSchemaVersion,
		Input:         l.Input,
		Result:        l.Document,
	}
	if l.Timestamp != nil && *l.Timestamp > 0 {
		r.CreatedAt = time.UnixMilli(*l.Timestamp).UTC()
	}
	return r
}
