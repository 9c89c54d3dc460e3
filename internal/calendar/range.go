package calendar

// DateRange is a two-endpoint selection. Either endpoint may be absent (zero).
//
// Writers inside this module always go through Normalize, so when both
// endpoints are present From <= To. A range with only From set is in progress.
type DateRange struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// NewRange returns the normalized range spanning a and b.
func NewRange(a, b Date) DateRange {
	from, to := Normalize(a, b)
	return DateRange{From: from, To: to}
}

// Normalize returns (min(a, b), max(a, b)) by calendar day.
func Normalize(a, b Date) (Date, Date) {
	if b.Before(a) {
		return b, a
	}
	return a, b
}

// Contains reports whether d lies within r inclusive. It is false unless both
// endpoints are present. Bounds are normalized on read as well, so ranges built
// from external input behave the same as engine-produced ones.
func Contains(d Date, r DateRange) bool {
	if !r.Complete() {
		return false
	}
	lo, hi := Normalize(r.From, r.To)
	return !d.Before(lo) && !d.After(hi)
}

// Complete reports whether both endpoints are present.
func (r DateRange) Complete() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

// InProgress reports whether only the first endpoint has been chosen.
func (r DateRange) InProgress() bool {
	return !r.From.IsZero() && r.To.IsZero()
}

// Empty reports whether neither endpoint is set.
func (r DateRange) Empty() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Len returns the number of days covered by a complete range, 0 otherwise.
func (r DateRange) Len() int {
	if !r.Complete() {
		return 0
	}
	lo, hi := Normalize(r.From, r.To)
	return int(hi.Time(nil).Sub(lo.Time(nil)).Hours()/24) + 1
}

// Days returns every day of a complete range in order.
func (r DateRange) Days() []Date {
	n := r.Len()
	if n == 0 {
		return nil
	}
	lo, _ := Normalize(r.From, r.To)
	out := make([]Date, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, lo.AddDays(i))
	}
	return out
}

// IsEndpoint reports whether d is one of r's present endpoints.
func (r DateRange) IsEndpoint(d Date) bool {
	if d.IsZero() {
		return false
	}
	return IsSameDay(d, r.From) || IsSameDay(d, r.To)
}

// String formats the range for logs: "2024-01-05..2024-01-10", "2024-01-05..", or "".
func (r DateRange) String() string {
	if r.Empty() {
		return ""
	}
	return r.From.String() + ".." + r.To.String()
}
