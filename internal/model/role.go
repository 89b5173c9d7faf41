package model

import "strings"

// Role is the account classification that decides which dashboard a user sees.
type Role string

const (
	RoleAdmin              Role = "Admin"
	RoleEmployee           Role = "Employee"
	RoleUser               Role = "User"
	RoleScholarshipStudent Role = "Scholarship Student"
	RoleInstituteStudent   Role = "Institute Student"

	// RoleUnknown is used for a missing or unrecognised role value.
	RoleUnknown Role = ""
)

// Roles lists every recognised role in display order.
var Roles = []Role{
	RoleAdmin,
	RoleEmployee,
	RoleUser,
	RoleScholarshipStudent,
	RoleInstituteStudent,
}

// ParseRole maps a raw role string to a Role. Matching ignores case and
// surrounding whitespace. Unrecognised values map to RoleUnknown.
func ParseRole(raw string) Role {
	raw = strings.TrimSpace(raw)
	for _, r := range Roles {
		if strings.EqualFold(string(r), raw) {
			return r
		}
	}
	return RoleUnknown
}

// Known reports whether r is one of the recognised roles.
func (r Role) Known() bool {
	return ParseRole(string(r)) != RoleUnknown
}

// IsStaff reports whether the role manages other users' records.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// IsStudent reports whether the role belongs to an enrolled student.
func (r Role) IsStudent() bool {
	return r == RoleScholarshipStudent || r == RoleInstituteStudent
}
