package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// CourseEntry is one graded course inside a semester record.
type CourseEntry struct {
	CourseCode  string  `json:"courseCode" binding:"required,max=32"`
	CourseName  string  `json:"courseName" binding:"required,max=255"`
	Grade       float64 `json:"grade" binding:"grade"`
	Credits     float64 `json:"credits" binding:"min=0"`
	ECTS        float64 `json:"ects" binding:"min=0"`
	LetterGrade string  `json:"lg" binding:"omitempty,max=4"`
}

// Semester is a student's result sheet for one semester.
type Semester struct {
	ID             string        `json:"_id,omitempty"`
	SemesterNumber int           `json:"semesterNumber" binding:"required,min=1,max=20"`
	SemesterGPA    *float64      `json:"semesterGPA,omitempty" binding:"omitempty,gpa"`
	TotalGPA       *float64      `json:"totalGPA,omitempty" binding:"omitempty,gpa"`
	Courses        []CourseEntry `json:"courses" binding:"dive"`
	ResultImage    string        `json:"resultImage,omitempty"`
}

// RecordID implements the resource record contract.
func (s Semester) RecordID() string { return s.ID }

// Validate rejects semesters without an identifier.
func (s Semester) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrMissingID
	}
	if s.SemesterNumber < 0 {
		return fmt.Errorf("semester %s: negative semesterNumber", s.ID)
	}
	return nil
}

// NewCourseEntry returns the blank row the semester form appends.
func NewCourseEntry() CourseEntry {
	return CourseEntry{LetterGrade: "AA"}
}

// ErrCourseIndex is returned when a course row index is out of range.
var ErrCourseIndex = errors.New("course index out of range")

// MoveCourse reorders course entries in place, moving the entry at from to to.
func (s *Semester) MoveCourse(from, to int) error {
	n := len(s.Courses)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrCourseIndex
	}
	entry := s.Courses[from]
	s.Courses = append(s.Courses[:from], s.Courses[from+1:]...)
	s.Courses = append(s.Courses[:to], append([]CourseEntry{entry}, s.Courses[to:]...)...)
	return nil
}

// DuplicateCourseCodes returns course codes that appear more than once.
// Duplicates are allowed; the form shows them as a warning.
func (s Semester) DuplicateCourseCodes() []string {
	seen := make(map[string]int, len(s.Courses))
	for _, c := range s.Courses {
		seen[strings.TrimSpace(c.CourseCode)]++
	}
	var dups []string
	for code, n := range seen {
		if n > 1 && code != "" {
			dups = append(dups, code)
		}
	}
	sort.Strings(dups)
	return dups
}

// SortedByNumber returns a copy of semesters ordered by semester number.
func SortedByNumber(semesters []Semester) []Semester {
	out := make([]Semester, len(semesters))
	copy(out, semesters)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SemesterNumber < out[j].SemesterNumber
	})
	return out
}
