package model

import (
	"strings"
	"time"
)

// TicketStatus enumerates the states a support ticket moves through.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// Base holds the fields every server-owned record shares.
type Base struct {
	ID          string     `json:"_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// RecordID returns the server-assigned identifier.
func (b Base) RecordID() string { return b.ID }

// Validate rejects records that arrived without an identifier.
func (b Base) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrMissingID
	}
	return nil
}

// Ticket is a support request raised by a student.
type Ticket struct {
	Base
	Response string       `json:"response,omitempty"`
	Status   TicketStatus `json:"status,omitempty"`
}

// Course is a course a student took part in.
type Course struct {
	Base
	CourseImage string `json:"course_image,omitempty"`
}

// Event is an event a student attended.
type Event struct {
	Base
	Photo string `json:"photo,omitempty"`
}

// Note is a free-form student note.
type Note struct {
	Base
	Content string `json:"content,omitempty"`
}

// Difficulty is an obstacle a student reports to the scholarship office.
type Difficulty struct {
	Base
}

// Achievement is a recognised student accomplishment.
type Achievement struct {
	Base
	Category         string `json:"category,omitempty"`
	AchievementImage string `json:"achievement_image,omitempty"`
}

// Certificate is a certificate earned by a student.
type Certificate struct {
	Base
	CertificateImage string `json:"certificate_image,omitempty"`
	CertificateLink  string `json:"certificate_link,omitempty"`
}

// FinancialReport is a periodic expense report with an attached scan.
type FinancialReport struct {
	Base
	FinancialReportImage string `json:"financial_report_image,omitempty"`
	DateOfReport         string `json:"date_of_report,omitempty"`
}
