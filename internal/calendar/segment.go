package calendar

// Segment is a contiguous run of columns within one week that fall inside the
// active range. The view draws one highlight per segment instead of marking
// each cell, so highlights stay seamless across a week.
type Segment struct {
	StartColumn int `json:"start_column"`
	EndColumn   int `json:"end_column"`
}

// Span returns the number of columns covered.
func (s Segment) Span() int {
	return s.EndColumn - s.StartColumn + 1
}

// Segments returns the maximal runs of columns (Sunday = 0) of w contained in r.
func Segments(w Week, r DateRange) []Segment {
	var out []Segment
	start := -1
	for col, d := range w {
		in := Contains(d, r)
		switch {
		case in && start < 0:
			start = col
		case !in && start >= 0:
			out = append(out, Segment{StartColumn: start, EndColumn: col - 1})
			start = -1
		}
		if in && col == len(w)-1 {
			out = append(out, Segment{StartColumn: start, EndColumn: col})
		}
	}
	return out
}
