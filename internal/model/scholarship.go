package model

import "strings"

// ScholarshipStudent is the per-user scholarship profile. The portal keeps at
// most one per user.
type ScholarshipStudent struct {
	ID                     string `json:"_id,omitempty"`
	CountryOfStudying      string `json:"country_of_studying" binding:"required,max=100"`
	City                   string `json:"city" binding:"required,max=100"`
	University             string `json:"university" binding:"required,max=255"`
	TypeOfUniversity       string `json:"type_of_university" binding:"required,oneof=Public Private"`
	ProgramOfStudy         string `json:"program_of_study" binding:"required,max=255"`
	StudentUniversityID    string `json:"student_university_id" binding:"required,max=64"`
	EnrollmentYear         int    `json:"enrollment_year" binding:"required,year"`
	ExpectedGraduationYear int    `json:"expected_graduation_year" binding:"required,year,gtefield=EnrollmentYear"`
}

// RecordID implements the resource record contract.
func (s ScholarshipStudent) RecordID() string { return s.ID }

// Validate rejects records that arrived without an identifier.
func (s ScholarshipStudent) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrMissingID
	}
	return nil
}
