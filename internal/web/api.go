package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"thesiscal/internal/calendar"
	"thesiscal/internal/daymeta"
	"thesiscal/internal/ics"
	appLog "thesiscal/internal/log"
	"thesiscal/internal/selection"
	"thesiscal/internal/session"
)

const maxBodyBytes = 64 << 10

// cellDTO is the JSON shape of one day cell.
type cellDTO struct {
	Date       calendar.Date `json:"date"`
	Column     int           `json:"column"`
	InMonth    bool          `json:"in_month"`
	Today      bool          `json:"today"`
	Selected   bool          `json:"selected"`
	InRange    bool          `json:"in_range"`
	RangeStart bool          `json:"range_start"`
	RangeEnd   bool          `json:"range_end"`
	HasEvents  bool          `json:"has_events"`
}

type weekDTO struct {
	Cells    []cellDTO          `json:"cells"`
	Segments []calendar.Segment `json:"segments"`
}

type monthDTO struct {
	Month    string    `json:"month"`
	Prev     string    `json:"prev"`
	Next     string    `json:"next"`
	Weekdays [7]string `json:"weekdays"`
	Weeks    []weekDTO `json:"weeks"`
}

func monthKey(d calendar.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
}

func toMonthDTO(v calendar.MonthView) monthDTO {
	out := monthDTO{
		Month:    monthKey(v.Month),
		Prev:     monthKey(v.Prev),
		Next:     monthKey(v.Next),
		Weekdays: calendar.WeekdayLabels(),
		Weeks:    make([]weekDTO, 0, len(v.Weeks)),
	}
	for _, w := range v.Weeks {
		wd := weekDTO{Cells: make([]cellDTO, 0, 7), Segments: w.Segments}
		if wd.Segments == nil {
			wd.Segments = []calendar.Segment{}
		}
		for _, c := range w.Cells {
			wd.Cells = append(wd.Cells, cellDTO{
				Date:       c.Date,
				Column:     c.Column,
				InMonth:    c.InMonth,
				Today:      c.Today,
				Selected:   c.Selected,
				InRange:    c.InRange,
				RangeStart: c.RangeStart,
				RangeEnd:   c.RangeEnd,
				HasEvents:  c.HasEntries,
			})
		}
		out.Weeks = append(out.Weeks, wd)
	}
	return out
}

// optionalDate parses a query value; empty means absent.
func optionalDate(v string) (calendar.Date, error) {
	if v == "" {
		return calendar.Date{}, nil
	}
	return calendar.ParseDate(v)
}

// handleCalendar renders a month without a session.
//
// GET /api/calendar?month=2024-03&from=2024-03-05&to=2024-03-12&selected=2024-03-20
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := calendar.ViewInput{Today: s.today(), Lookup: s.index}

	in.Month = in.Today
	if m := q.Get("month"); m != "" {
		month, err := calendar.ParseMonth(m)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		in.Month = month
	}

	var err error
	if in.Selected, err = optionalDate(q.Get("selected")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, err := optionalDate(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := optionalDate(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if from.IsZero() && !to.IsZero() {
		writeError(w, http.StatusBadRequest, "to requires from")
		return
	}
	in.Range = calendar.DateRange{From: from, To: to}
	if in.Range.Complete() {
		in.Range = calendar.NewRange(from, to)
	}

	writeJSON(w, http.StatusOK, toMonthDTO(calendar.BuildView(in)))
}

type dayResponse struct {
	Date    calendar.Date   `json:"date"`
	Entries []daymeta.Entry `json:"entries"`
}

// handleDay lists the entries on one day. GET /api/days/2024-03-05
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	d, err := calendar.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dayResponse{Date: d, Entries: s.index.Entries(d)})
}

type refreshResponse struct {
	Days      int       `json:"days"`
	UpdatedAt time.Time `json:"updated_at"`
	Error     string    `json:"error,omitempty"`
}

// handleRefresh rebuilds the day index now instead of waiting for cron.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.refresh == nil {
		writeError(w, http.StatusServiceUnavailable, "refresh not configured")
		return
	}
	resp := refreshResponse{}
	if err := s.refresh.Refresh(r.Context()); err != nil {
		appLog.Error("api refresh failed", err)
		resp.Error = err.Error()
	}
	resp.Days = s.index.Days()
	resp.UpdatedAt = s.index.UpdatedAt()
	writeJSON(w, http.StatusOK, resp)
}

type createSessionRequest struct {
	Mode          string        `json:"mode" validate:"omitempty,oneof=single range"`
	AllowDeselect *bool         `json:"allow_deselect"`
	Month         string        `json:"month" validate:"omitempty,datetime=2006-01"`
	Selected      calendar.Date `json:"selected"`
	From          calendar.Date `json:"from"`
	To            calendar.Date `json:"to"`
}

type sessionResponse struct {
	session.State
	Notifications []session.Notification `json:"notifications"`
	View          monthDTO               `json:"view"`
}

func (s *Server) sessionResponse(sess *session.Session, st session.State, fired []session.Notification) sessionResponse {
	if fired == nil {
		fired = []session.Notification{}
	}
	return sessionResponse{
		State:         st,
		Notifications: fired,
		View:          toMonthDTO(sess.View(s.today(), s.index)),
	}
}

// decodeBody reads an optional JSON body into v and validates it. An empty
// body leaves v at its zero value, which must still pass validation.
func decodeBody(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return err
		}
	}
	return validateRequest(v)
}

// handleCreateSession opens a session. POST /api/sessions {"mode": "range"}
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.From.IsZero() && !req.To.IsZero() {
		writeError(w, statusFor(session.ErrRangeWithoutStart), session.ErrRangeWithoutStart.Error())
		return
	}

	var co session.CreateOptions
	if req.Mode != "" {
		mode, err := selection.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		co.Mode = &mode
	}
	co.AllowDeselect = req.AllowDeselect
	if req.Month != "" {
		month, err := calendar.ParseMonth(req.Month)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		co.Month = month
	}

	sess := s.sessions.Create(co)
	st := sess.State()
	if !req.Selected.IsZero() || !req.From.IsZero() || !req.To.IsZero() {
		var err error
		st, _, err = sess.Apply(session.Event{
			Type: session.EventSeed,
			Date: req.Selected,
			From: req.From,
			To:   req.To,
		})
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
	}
	writeJSON(w, http.StatusCreated, s.sessionResponse(sess, st, nil))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess, sess.State(), sess.Notifications()))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSessionEvent feeds one UI interaction to a session. The response
// carries the callbacks that interaction fired.
//
// POST /api/sessions/{id}/events {"type": "click", "date": "2024-03-05"}
func (s *Server) handleSessionEvent(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	var ev session.Event
	if err := decodeBody(r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, fired, err := sess.Apply(ev)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess, st, fired))
}

// handleRangeICS exports the session's range as an all-day event.
func (s *Server) handleRangeICS(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	var buf bytes.Buffer
	err = ics.EncodeRange(&buf, sess.Range(), ics.ExportOptions{
		Summary: r.URL.Query().Get("summary"),
	})
	if errors.Is(err, ics.ErrIncompleteRange) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		appLog.Error("range export failed", err, "session", sess.ID())
		writeError(w, http.StatusInternalServerError, "failed to encode range")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="range.ics"`)
	_, _ = w.Write(buf.Bytes())
}
