package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"thesiscal/internal/calendar"
	appLog "thesiscal/internal/log"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"monthKey": monthKey,
	"title": func(d calendar.Date) string {
		return fmt.Sprintf("%s %d", d.Month(), d.Year())
	},
	"cellClass": cellClass,
	// segStyle places a highlight bar; columns are 1-based in CSS grid.
	"segStyle": func(sg calendar.Segment) template.CSS {
		return template.CSS(fmt.Sprintf("grid-column: %d / span %d", sg.StartColumn+1, sg.Span()))
	},
	"cellStyle": func(c calendar.Cell) template.CSS {
		return template.CSS(fmt.Sprintf("grid-column: %d", c.Column+1))
	},
}).ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	Session  string
	Weekdays [7]string
	View     calendar.MonthView
}

func cellClass(c calendar.Cell) string {
	classes := []string{"day"}
	if !c.InMonth {
		classes = append(classes, "outside")
	}
	if c.Today {
		classes = append(classes, "today")
	}
	if c.Selected {
		classes = append(classes, "selected")
	}
	if c.InRange {
		classes = append(classes, "in-range")
	}
	if c.RangeStart {
		classes = append(classes, "range-start")
	}
	if c.RangeEnd {
		classes = append(classes, "range-end")
	}
	if c.HasEntries {
		classes = append(classes, "has-events")
	}
	return strings.Join(classes, " ")
}

// handleCalendarPage renders a month as HTML. With ?session= the session's
// month and selection are shown, otherwise ?month= (default: this month).
// The root element carries data-ready="true" for the snapshot capture.
func (s *Server) handleCalendarPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := pageData{Weekdays: calendar.WeekdayLabels()}

	if id := q.Get("session"); id != "" {
		sess, err := s.sessions.Get(id)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		data.Session = id
		data.View = sess.View(s.today(), s.index)
	} else {
		month := s.today()
		if m := q.Get("month"); m != "" {
			var err error
			if month, err = calendar.ParseMonth(m); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		data.View = calendar.BuildView(calendar.ViewInput{Month: month, Today: s.today(), Lookup: s.index})
	}

	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "calendar.html", data); err != nil {
		appLog.Error("calendar page render failed", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
