package page

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/resource"
)

// Definition describes one list page that can be mounted through the portal.
type Definition struct {
	// Name is the URL key under /api/pages.
	Name string
	// Route is the browser path whose role rules gate the page.
	Route string
	// FileField is the multipart field carrying an upload, if any.
	FileField string

	build func(api *apiclient.Client, n Notifier, opts ...resource.ListOption) Controller
}

// New builds an unloaded controller for the page.
func (d Definition) New(api *apiclient.Client, n Notifier, opts ...resource.ListOption) Controller {
	return d.build(api, n, opts...)
}

func define[R resource.Record](name, route, fileField string, cfg listConfig[R]) Definition {
	return Definition{
		Name:      name,
		Route:     route,
		FileField: fileField,
		build: func(api *apiclient.Client, n Notifier, opts ...resource.ListOption) Controller {
			return newListPage(api, cfg, n, opts...)
		},
	}
}

var ticketStatuses = []string{
	string(model.TicketStatusOpen),
	string(model.TicketStatusInProgress),
	string(model.TicketStatusResolved),
	string(model.TicketStatusClosed),
}

var studentReportsConfig = listConfig[model.StudentReport]{
	endpoint: resource.StudentReports,
	required: []string{"title", "date_of_report"},
	form:     func() any { return &model.StudentReportRequest{} },
}

func warnDuplicateCourses(sem model.Semester, n Notifier) {
	if dups := sem.DuplicateCourseCodes(); len(dups) > 0 {
		n.Info("semester", fmt.Sprintf("Semester %d lists course code %s more than once", sem.SemesterNumber, strings.Join(dups, ", ")))
	}
}

// Definitions is the page catalogue keyed by Name.
var Definitions = map[string]Definition{}

func init() {
	for _, d := range []Definition{
		define("courses", "/student/courses", "course_image", listConfig[model.Course]{
			endpoint: resource.Courses,
			required: []string{"title"},
		}),
		define("events", "/student/events", "photo", listConfig[model.Event]{
			endpoint: resource.Events,
			required: []string{"title"},
		}),
		define("tickets", "/student/tickets", "", listConfig[model.Ticket]{
			endpoint: resource.StudentTickets,
			required: []string{"title", "description"},
		}),
		define("ticket-list", "/ticket-list", "", listConfig[model.Ticket]{
			endpoint: resource.AllTickets,
			required: []string{"title"},
			allowed:  map[string][]string{"status": ticketStatuses},
		}),
		define("achievements", "/student/achievements", "achievement_image", listConfig[model.Achievement]{
			endpoint: resource.Achievements,
			required: []string{"title"},
		}),
		define("certificates", "/student/certificates", "certificate_image", listConfig[model.Certificate]{
			endpoint: resource.Certificates,
			required: []string{"title"},
		}),
		define("difficulties", "/student/difficulties", "", listConfig[model.Difficulty]{
			endpoint: resource.Difficulties,
			required: []string{"title", "description"},
		}),
		define("notes", "/notes", "", listConfig[model.Note]{
			endpoint: resource.Notes,
			required: []string{"title"},
		}),
		define("financial-reports", "/student/financial-report", "financial_report_image", listConfig[model.FinancialReport]{
			endpoint: resource.FinancialReports,
			required: []string{"title"},
		}),
		define("semesters", "/semester-list", "", listConfig[model.Semester]{
			endpoint: resource.Semesters,
			form:     func() any { return &model.Semester{} },
			saved:    warnDuplicateCourses,
		}),
		define("my-reports", "/my-reports", "", studentReportsConfig),
	} {
		Definitions[d.Name] = d
	}
}

// Lookup returns the definition of the named page.
func Lookup(name string) (Definition, bool) {
	d, ok := Definitions[name]
	return d, ok
}

// Names returns the page names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Definitions))
	for name := range Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
