// Package navigation decides which view a path renders for a given session.
// Resolve is pure: it reads nothing but its arguments.
package navigation

import (
	"strings"

	"github.com/mawahib/portal/internal/model"
)

// View names a renderable page.
type View string

const (
	ViewHome           View = "Home"
	ViewAbout          View = "About"
	ViewContact        View = "Contact"
	ViewLogin          View = "Login"
	ViewSignup         View = "Signup"
	ViewForgotPassword View = "ForgotPassword"
	ViewResetPassword  View = "ResetPassword"
	ViewNotFound       View = "NotFound"
	ViewWaiting        View = "Waiting"

	ViewAdminDashboard       View = "AdminDashboard"
	ViewEmployeeDashboard    View = "EmployeeDashboard"
	ViewScholarshipDashboard View = "ScholarshipDashboard"
	ViewInstituteDashboard   View = "InstituteDashboard"

	ViewProfile          View = "Profile"
	ViewCourses          View = "Courses"
	ViewEvents           View = "Events"
	ViewTickets          View = "Tickets"
	ViewAchievements     View = "Achievements"
	ViewCertificates     View = "Certificates"
	ViewDifficulties     View = "Difficulties"
	ViewFinancialReports View = "FinancialReports"
	ViewScholarshipForm  View = "ScholarshipStudentForm"
	ViewNotes            View = "Notes"
	ViewStudentReport    View = "StudentReport"
	ViewMyReports        View = "MyReports"
	ViewAdminUsers       View = "AdminUsers"
	ViewStudentDetails   View = "StudentDetails"
	ViewCreateTicket     View = "CreateTicket"
	ViewTicketList       View = "TicketList"
	ViewSemesterList     View = "SemesterList"
	ViewSemesterCreate   View = "SemesterCreate"
)

// Resolution is the outcome of resolving a path.
type Resolution struct {
	View   View              `json:"view"`
	Params map[string]string `json:"params,omitempty"`
	// Route is the matched pattern, empty for the catch-all.
	Route string `json:"route,omitempty"`
}

// Route maps a path pattern to a view. Public routes render without a
// session; gated routes render only for the listed roles.
type Route struct {
	Pattern string
	View    View
	Public  bool
	Roles   []model.Role
}

var (
	everyRole  = []model.Role{model.RoleAdmin, model.RoleEmployee, model.RoleScholarshipStudent, model.RoleInstituteStudent}
	students   = []model.Role{model.RoleScholarshipStudent, model.RoleInstituteStudent}
	scholars   = []model.Role{model.RoleScholarshipStudent}
	staff      = []model.Role{model.RoleAdmin, model.RoleEmployee}
	adminsOnly = []model.Role{model.RoleAdmin}
)

// Routes is the route table in match order. "/" is handled by the dashboard
// rule and is listed for completeness.
var Routes = []Route{
	{Pattern: "/", View: ViewHome},
	{Pattern: "/about", View: ViewAbout, Public: true},
	{Pattern: "/contact", View: ViewContact, Public: true},
	{Pattern: "/login", View: ViewLogin, Public: true},
	{Pattern: "/signup", View: ViewSignup, Public: true},
	{Pattern: "/forgot-password", View: ViewForgotPassword, Public: true},
	{Pattern: "/reset-password/:token", View: ViewResetPassword, Public: true},

	{Pattern: "/profile", View: ViewProfile, Roles: everyRole},
	{Pattern: "/student/courses", View: ViewCourses, Roles: students},
	{Pattern: "/student/events", View: ViewEvents, Roles: students},
	{Pattern: "/student/tickets", View: ViewTickets, Roles: students},
	{Pattern: "/student/achievements", View: ViewAchievements, Roles: students},
	{Pattern: "/student/certificates", View: ViewCertificates, Roles: students},
	{Pattern: "/student/difficulties", View: ViewDifficulties, Roles: students},
	{Pattern: "/student/financial-report", View: ViewFinancialReports, Roles: scholars},
	{Pattern: "/student/scholarship-student-form", View: ViewScholarshipForm, Roles: scholars},
	{Pattern: "/notes", View: ViewNotes, Roles: students},
	{Pattern: "/student-report", View: ViewStudentReport, Roles: scholars},
	{Pattern: "/my-reports", View: ViewMyReports, Roles: scholars},
	{Pattern: "/admin-dashboard", View: ViewAdminUsers, Roles: adminsOnly},
	{Pattern: "/student/details", View: ViewStudentDetails, Roles: staff},
	{Pattern: "/create-ticket", View: ViewCreateTicket, Roles: students},
	{Pattern: "/ticket-list", View: ViewTicketList, Roles: staff},
	{Pattern: "/semester-list", View: ViewSemesterList, Roles: scholars},
	{Pattern: "/semester-create", View: ViewSemesterCreate, Roles: scholars},
}

var dashboards = map[model.Role]View{
	model.RoleAdmin:              ViewAdminDashboard,
	model.RoleEmployee:           ViewEmployeeDashboard,
	model.RoleUser:               ViewWaiting,
	model.RoleScholarshipStudent: ViewScholarshipDashboard,
	model.RoleInstituteStudent:   ViewInstituteDashboard,
}

// Dashboard returns the home view of role. Unknown roles wait for approval.
func Dashboard(role model.Role) View {
	if v, ok := dashboards[role]; ok {
		return v
	}
	return ViewWaiting
}

// Dashboards returns every view Dashboard can produce.
func Dashboards() []View {
	return []View{
		ViewAdminDashboard,
		ViewEmployeeDashboard,
		ViewScholarshipDashboard,
		ViewInstituteDashboard,
		ViewWaiting,
	}
}

// IsDashboard reports whether v is a role home view.
func IsDashboard(v View) bool {
	for _, d := range Dashboards() {
		if d == v {
			return true
		}
	}
	return false
}

// Resolve returns the view for path.
//
// Signed-out visitors see public pages and Login for everything else.
// Signed-in users get their dashboard on "/", the page itself when their
// role is allowed, Waiting while their role is User or unrecognised, and
// NotFound otherwise.
func Resolve(isAuthenticated bool, role model.Role, path string) Resolution {
	path = normalize(path)
	route, params, matched := match(path)

	if !isAuthenticated {
		if matched && route.Public {
			return Resolution{View: route.View, Params: params, Route: route.Pattern}
		}
		return Resolution{View: ViewLogin, Route: "/login"}
	}

	if path == "/" {
		return Resolution{View: Dashboard(role), Route: "/"}
	}
	if !matched {
		return Resolution{View: ViewNotFound}
	}
	if route.Public || allowed(route.Roles, role) {
		return Resolution{View: route.View, Params: params, Route: route.Pattern}
	}
	if role == model.RoleUser || !role.Known() {
		return Resolution{View: ViewWaiting, Route: route.Pattern}
	}
	return Resolution{View: ViewNotFound, Route: route.Pattern}
}

// Allowed reports whether role may open the page at path. Public pages are
// open to everyone.
func Allowed(role model.Role, path string) bool {
	route, _, ok := match(normalize(path))
	if !ok {
		return false
	}
	return route.Public || allowed(route.Roles, role)
}

func allowed(roles []model.Role, role model.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

func match(path string) (Route, map[string]string, bool) {
	segs := split(path)
	for _, r := range Routes {
		if params, ok := matchPattern(split(r.Pattern), segs); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

func matchPattern(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:]] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
