package model

// SummaryCategory selects which per-user statistic the admin dashboard lists.
type SummaryCategory string

const (
	CategoryUsers            SummaryCategory = "users"
	CategoryReports          SummaryCategory = "reports"
	CategoryTickets          SummaryCategory = "tickets"
	CategoryCertificates     SummaryCategory = "certificates"
	CategoryFinancialReports SummaryCategory = "financialReports"
	CategoryAchievements     SummaryCategory = "userAchievements"
	CategoryCourses          SummaryCategory = "courses"
)

// SummaryCategories lists the dashboard filters with their display names.
var SummaryCategories = []struct {
	Name  string
	Value SummaryCategory
}{
	{"Users", CategoryUsers},
	{"Reports", CategoryReports},
	{"Tickets", CategoryTickets},
	{"Certificates", CategoryCertificates},
	{"Financial Reports", CategoryFinancialReports},
	{"Achievements", CategoryAchievements},
	{"Courses", CategoryCourses},
}

// ParseSummaryCategory returns the category for raw and whether it is known.
func ParseSummaryCategory(raw string) (SummaryCategory, bool) {
	for _, c := range SummaryCategories {
		if string(c.Value) == raw {
			return c.Value, true
		}
	}
	return "", false
}

// Title returns the display name of the category.
func (c SummaryCategory) Title() string {
	for _, sc := range SummaryCategories {
		if sc.Value == c {
			return sc.Name
		}
	}
	return "Details"
}

// UserSummary is one row of the admin dashboard: a user with per-category
// counts and, depending on the category, the matching records.
type UserSummary struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	PhotoURL string `json:"photoURL,omitempty"`

	ReportCount          int `json:"reportCount"`
	TicketCount          int `json:"ticketCount"`
	CertificateCount     int `json:"certificateCount"`
	FinancialReportCount int `json:"financialReportCount"`
	AchievementCount     int `json:"achievementCount"`
	CourseCount          int `json:"courseCount"`

	Reports          []StudentReport   `json:"reports,omitempty"`
	Tickets          []Ticket          `json:"tickets,omitempty"`
	Certificates     []Certificate     `json:"certificates,omitempty"`
	FinancialReports []FinancialReport `json:"financialReports,omitempty"`
	Achievements     []Achievement     `json:"achievements,omitempty"`
	Courses          []Course          `json:"courses,omitempty"`
}

// AsUser returns the account part of the summary row.
func (u UserSummary) AsUser() User {
	return User{ID: u.ID, Name: u.Name, Email: u.Email, Role: ParseRole(string(u.Role)), PhotoURL: u.PhotoURL}
}

// Count returns the statistic shown for the given category.
func (u UserSummary) Count(c SummaryCategory) int {
	switch c {
	case CategoryReports:
		return u.ReportCount
	case CategoryTickets:
		return u.TicketCount
	case CategoryCertificates:
		return u.CertificateCount
	case CategoryFinancialReports:
		return u.FinancialReportCount
	case CategoryAchievements:
		return u.AchievementCount
	case CategoryCourses:
		return u.CourseCount
	default:
		return 0
	}
}

// Profile is the signed-in user's profile page payload.
type Profile struct {
	User           User        `json:"user"`
	ProgramOfStudy string      `json:"program_of_study,omitempty"`
	University     *University `json:"university,omitempty"`

	StudentUniversityID    string `json:"student_university_id,omitempty"`
	EnrollmentYear         int    `json:"enrollment_year,omitempty"`
	ExpectedGraduationYear int    `json:"expected_graduation_year,omitempty"`
	TypeOfUniversity       string `json:"type_of_university,omitempty"`
	City                   string `json:"city,omitempty"`
	CountryOfStudying      string `json:"country_of_studying,omitempty"`

	Certificates []Certificate `json:"certificates"`
	Courses      []Course      `json:"courses"`
	Events       []Event       `json:"events"`
	Achievements []Achievement `json:"achievements"`
}

// University is the institution shown on the profile header.
type University struct {
	Name string `json:"name"`
}

// Validate checks the nested user carries an identifier.
func (p Profile) Validate() error {
	return p.User.Validate()
}

// ProfileUpdate holds the editable profile fields. Role and email are not
// editable by the user.
type ProfileUpdate struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Phone    string `json:"phone,omitempty" binding:"omitempty,max=32"`
	Bio      string `json:"bio,omitempty" binding:"omitempty,max=1000"`
	ImageURL string `json:"imageUrl,omitempty" binding:"omitempty,max=2048"`
}
