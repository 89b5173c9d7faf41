package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mawahib/portal/internal/model"
)

func TestResolve_DashboardPerRole(t *testing.T) {
	tests := []struct {
		role model.Role
		want View
	}{
		{model.RoleAdmin, ViewAdminDashboard},
		{model.RoleEmployee, ViewEmployeeDashboard},
		{model.RoleUser, ViewWaiting},
		{model.RoleScholarshipStudent, ViewScholarshipDashboard},
		{model.RoleInstituteStudent, ViewInstituteDashboard},
		{model.RoleUnknown, ViewWaiting},
		{model.Role("Alumni"), ViewWaiting},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			res := Resolve(true, tt.role, "/")
			assert.Equal(t, tt.want, res.View)
			assert.True(t, IsDashboard(res.View))
		})
	}
}

func TestResolve_ExactlyOneDashboard(t *testing.T) {
	for _, role := range append([]model.Role{model.RoleUnknown}, model.Roles...) {
		count := 0
		for _, d := range Dashboards() {
			if Resolve(true, role, "/").View == d {
				count++
			}
		}
		assert.Equal(t, 1, count, "role %q", role)
	}
}

func TestResolve_Unauthenticated(t *testing.T) {
	tests := []struct {
		path string
		want View
	}{
		{"/about", ViewAbout},
		{"/contact", ViewContact},
		{"/signup", ViewSignup},
		{"/login", ViewLogin},
		{"/forgot-password", ViewForgotPassword},
		{"/reset-password/abc", ViewResetPassword},
		{"/", ViewLogin},
		{"/profile", ViewLogin},
		{"/student/courses", ViewLogin},
		{"/admin-dashboard", ViewLogin},
		{"/does-not-exist", ViewLogin},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(false, model.RoleUnknown, tt.path).View)
		})
	}
}

func TestResolve_ResetTokenParam(t *testing.T) {
	res := Resolve(false, model.RoleUnknown, "/reset-password/tok-123?x=1")
	assert.Equal(t, ViewResetPassword, res.View)
	assert.Equal(t, "tok-123", res.Params["token"])

	assert.Equal(t, ViewLogin, Resolve(false, model.RoleUnknown, "/reset-password/").View)
}

func TestResolve_GatedPages(t *testing.T) {
	tests := []struct {
		name string
		role model.Role
		path string
		want View
	}{
		{"scholar opens financial report", model.RoleScholarshipStudent, "/student/financial-report", ViewFinancialReports},
		{"institute student opens courses", model.RoleInstituteStudent, "/student/courses", ViewCourses},
		{"admin opens user admin", model.RoleAdmin, "/admin-dashboard", ViewAdminUsers},
		{"employee opens ticket list", model.RoleEmployee, "/ticket-list", ViewTicketList},
		{"user waits on gated page", model.RoleUser, "/student/courses", ViewWaiting},
		{"unknown role waits on gated page", model.RoleUnknown, "/profile", ViewWaiting},
		{"employee denied admin page", model.RoleEmployee, "/admin-dashboard", ViewNotFound},
		{"institute student denied financial report", model.RoleInstituteStudent, "/student/financial-report", ViewNotFound},
		{"admin denied student page", model.RoleAdmin, "/semester-list", ViewNotFound},
		{"unmatched path", model.RoleAdmin, "/nowhere", ViewNotFound},
		{"unmatched for user", model.RoleUser, "/nowhere", ViewNotFound},
		{"public page still renders", model.RoleAdmin, "/about", ViewAbout},
		{"trailing slash", model.RoleScholarshipStudent, "/notes/", ViewNotes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(true, tt.role, tt.path).View)
		})
	}
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(model.RoleScholarshipStudent, "/student-report"))
	assert.False(t, Allowed(model.RoleInstituteStudent, "/student-report"))
	assert.True(t, Allowed(model.RoleUnknown, "/about"))
	assert.False(t, Allowed(model.RoleAdmin, "/missing"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "/", normalize(""))
	assert.Equal(t, "/", normalize("/"))
	assert.Equal(t, "/", normalize("///"))
	assert.Equal(t, "/notes", normalize("notes/"))
	assert.Equal(t, "/notes", normalize("/notes#top"))
}
