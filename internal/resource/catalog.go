package resource

import "github.com/mawahib/portal/internal/model"

// Collections of the scholarship API.
var (
	StudentTickets = Endpoint[model.Ticket]{Name: "ticket", Path: "/tickets", ListPath: "/user/ticket", ListKey: "tickets"}
	AllTickets     = Endpoint[model.Ticket]{Name: "ticket", Path: "/tickets", ListKey: "tickets"}

	Courses      = Endpoint[model.Course]{Name: "course", Path: "/courses", ListKey: "courses", ItemKey: "course", Multipart: true}
	Events       = Endpoint[model.Event]{Name: "event", Path: "/events", ListKey: "events", ItemKey: "event", Multipart: true}
	Notes        = Endpoint[model.Note]{Name: "note", Path: "/notes", ListKey: "notes", ItemKey: "note"}
	Difficulties = Endpoint[model.Difficulty]{Name: "difficulty", Path: "/difficulties", ListKey: "difficulties", ItemKey: "difficulty"}
	Achievements = Endpoint[model.Achievement]{Name: "achievement", Path: "/userAchievements", ListKey: "userAchievements", ItemKey: "userAchievement", Multipart: true}
	Certificates = Endpoint[model.Certificate]{Name: "certificate", Path: "/certificates", ListKey: "certificates", ItemKey: "certificate", Multipart: true}

	FinancialReports = Endpoint[model.FinancialReport]{
		Name:      "financial report",
		Path:      "/financial-report",
		ListKey:   "financialReports",
		ItemKey:   "financialReport",
		Multipart: true,
	}

	Semesters = Endpoint[model.Semester]{Name: "semester", Path: "/semester", ListPath: "/semester/all", ItemKey: "semester"}

	StudentReports = Endpoint[model.StudentReport]{
		Name:     "student report",
		Path:     "/studentReport",
		ListPath: "/studentReports",
		ListKey:  "studentReports",
		ItemKey:  "studentReport",
	}

	ScholarshipStudents = Endpoint[model.ScholarshipStudent]{Name: "scholarship record", Path: "/scholarship-student", ItemKey: "scholarshipStudent"}
)
