package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Ref is an optional reference to another record. The API sends either the
// bare id or the populated record, depending on the endpoint.
type Ref struct {
	ID     string          `json:"-"`
	Record json.RawMessage `json:"-"`
}

// UnmarshalJSON accepts null, an id string or an object carrying "_id".
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = Ref{}
		return nil
	case data[0] == '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	var head struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	*r = Ref{ID: head.ID, Record: append(json.RawMessage(nil), data...)}
	return nil
}

// MarshalJSON writes the bare id, which is what the API expects on writes.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// IsZero reports whether the reference is unset.
func (r Ref) IsZero() bool { return r.ID == "" }

// Populated reports whether the API sent the full referenced record.
func (r Ref) Populated() bool { return len(r.Record) > 0 }

// Decode unmarshals the populated record into dst. It is a no-op for
// unpopulated references.
func (r Ref) Decode(dst any) error {
	if !r.Populated() {
		return nil
	}
	return json.Unmarshal(r.Record, dst)
}

// StudentReport links a report date to at most one record of each kind.
// All references are optional.
type StudentReport struct {
	ID                string `json:"_id,omitempty"`
	Title             string `json:"title"`
	DateOfReport      string `json:"date_of_report"`
	CourseID          Ref    `json:"courseId"`
	NoteID            Ref    `json:"noteId"`
	DifficultyID      Ref    `json:"difficultiesId"`
	UserAchievementID Ref    `json:"userAchievementId"`
	EventID           Ref    `json:"eventId"`
	CertificateID     Ref    `json:"certificateId"`
	CreatedAt         string `json:"createdAt,omitempty"`
}

// RecordID implements the resource record contract.
func (r StudentReport) RecordID() string { return r.ID }

// Validate rejects reports that arrived without an identifier.
func (r StudentReport) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrMissingID
	}
	return nil
}

// References returns the set references keyed by report field name.
func (r StudentReport) References() map[string]Ref {
	refs := map[string]Ref{}
	for name, ref := range map[string]Ref{
		"courseId":          r.CourseID,
		"noteId":            r.NoteID,
		"difficultiesId":    r.DifficultyID,
		"userAchievementId": r.UserAchievementID,
		"eventId":           r.EventID,
		"certificateId":     r.CertificateID,
	} {
		if !ref.IsZero() {
			refs[name] = ref
		}
	}
	return refs
}

// StudentReportRequest is the form payload for creating or editing a report.
type StudentReportRequest struct {
	Title             string `json:"title" binding:"required,max=255"`
	DateOfReport      string `json:"date_of_report" binding:"required,datetime=2006-01-02"`
	CourseID          string `json:"courseId,omitempty"`
	NoteID            string `json:"noteId,omitempty"`
	DifficultyID      string `json:"difficultiesId,omitempty"`
	UserAchievementID string `json:"userAchievementId,omitempty"`
	EventID           string `json:"eventId,omitempty"`
	CertificateID     string `json:"certificateId,omitempty"`
}

// ReportOptions holds the records a student can attach to a report.
type ReportOptions struct {
	Courses          []Course      `json:"courses"`
	Notes            []Note        `json:"notes"`
	Difficulties     []Difficulty  `json:"difficulties"`
	UserAchievements []Achievement `json:"userAchievements"`
	Events           []Event       `json:"events"`
	Certificates     []Certificate `json:"certificates"`
}
