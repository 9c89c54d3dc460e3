package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"thesiscal/internal/calendar"
)

func matrixCommand() *cli.Command {
	return &cli.Command{
		Name:  "matrix",
		Usage: "Print a month grid with an optional range highlighted.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "month", Usage: "month as YYYY-MM (default: current month)"},
			&cli.StringFlag{Name: "from", Usage: "range start, YYYY-MM-DD"},
			&cli.StringFlag{Name: "to", Usage: "range end, YYYY-MM-DD"},
			&cli.StringFlag{Name: "selected", Usage: "single selected day, YYYY-MM-DD"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			in, err := matrixInput(calendar.Today(cfg.Location()), c.String("month"), c.String("from"), c.String("to"), c.String("selected"))
			if err != nil {
				return err
			}
			return renderMatrix(c.App.Writer, calendar.BuildView(in))
		},
	}
}

func matrixInput(today calendar.Date, month, from, to, selected string) (calendar.ViewInput, error) {
	in := calendar.ViewInput{Month: today, Today: today}
	var err error
	if month != "" {
		if in.Month, err = calendar.ParseMonth(month); err != nil {
			return in, err
		}
	}
	parse := func(s string) (calendar.Date, error) {
		if s == "" {
			return calendar.Date{}, nil
		}
		return calendar.ParseDate(s)
	}
	if in.Selected, err = parse(selected); err != nil {
		return in, err
	}
	var a, b calendar.Date
	if a, err = parse(from); err != nil {
		return in, err
	}
	if b, err = parse(to); err != nil {
		return in, err
	}
	switch {
	case a.IsZero() && !b.IsZero():
		return in, errors.New("--to requires --from")
	case b.IsZero():
		in.Range = calendar.DateRange{From: a}
	default:
		in.Range = calendar.NewRange(a, b)
	}
	return in, nil
}

// renderMatrix writes one line per week. Range endpoints are bracketed, days
// inside the range are wrapped in '=', the selected day in parentheses and
// days outside the month get a trailing '.'.
func renderMatrix(w io.Writer, v calendar.MonthView) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", v.Month.Month(), v.Month.Year())
	labels := calendar.WeekdayLabels()
	for i, l := range labels {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%4s", l)
	}
	b.WriteByte('\n')

	for _, week := range v.Weeks {
		for i, c := range week.Cells {
			if i > 0 {
				b.WriteByte(' ')
			}
			pre, post := " ", " "
			switch {
			case c.RangeStart || c.RangeEnd:
				pre, post = "[", "]"
			case c.InRange:
				pre, post = "=", "="
			case c.Selected:
				pre, post = "(", ")"
			case !c.InMonth:
				post = "."
			}
			fmt.Fprintf(&b, "%s%2d%s", pre, c.Date.Day(), post)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
