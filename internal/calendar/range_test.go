package calendar

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func jan(day int) Date { return NewDate(2024, time.January, day) }

func TestNormalizeProperty(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	base := NewDate(2000, time.January, 1)
	for i := 0; i < 2000; i++ {
		a := base.AddDays(rnd.Intn(20000))
		b := base.AddDays(rnd.Intn(20000))

		lo, hi := Normalize(a, b)
		if hi.Before(lo) {
			t.Fatalf("Normalize(%s, %s) = (%s, %s), not ordered", a, b, lo, hi)
		}
		if !(lo == a && hi == b) && !(lo == b && hi == a) {
			t.Fatalf("Normalize(%s, %s) = (%s, %s), not a permutation", a, b, lo, hi)
		}
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name string
		d    Date
		r    DateRange
		want bool
	}{
		{name: "inside", d: jan(7), r: NewRange(jan(5), jan(10)), want: true},
		{name: "lower bound inclusive", d: jan(5), r: NewRange(jan(5), jan(10)), want: true},
		{name: "upper bound inclusive", d: jan(10), r: NewRange(jan(5), jan(10)), want: true},
		{name: "before", d: jan(4), r: NewRange(jan(5), jan(10))},
		{name: "after", d: jan(11), r: NewRange(jan(5), jan(10))},
		{name: "single day range", d: jan(5), r: NewRange(jan(5), jan(5)), want: true},
		{name: "in progress", d: jan(5), r: DateRange{From: jan(5)}},
		{name: "only to", d: jan(5), r: DateRange{To: jan(5)}},
		{name: "empty", d: jan(5), r: DateRange{}},
		{name: "reversed external input", d: jan(7), r: DateRange{From: jan(10), To: jan(5)}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(tt.d, tt.r))
		})
	}
}

func TestContainsMatchesNormalizedBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	base := NewDate(2024, time.January, 1)
	for i := 0; i < 1000; i++ {
		a, b, d := base.AddDays(rnd.Intn(60)), base.AddDays(rnd.Intn(60)), base.AddDays(rnd.Intn(60))
		lo, hi := Normalize(a, b)
		want := lo.Compare(d) <= 0 && d.Compare(hi) <= 0
		if got := Contains(d, DateRange{From: a, To: b}); got != want {
			t.Fatalf("Contains(%s, %s..%s) = %v, want %v", d, a, b, got, want)
		}
	}
}

func TestRangeStates(t *testing.T) {
	assert.True(t, DateRange{}.Empty())
	assert.True(t, DateRange{From: jan(1)}.InProgress())
	assert.False(t, DateRange{From: jan(1)}.Complete())
	assert.True(t, NewRange(jan(3), jan(1)).Complete())
	assert.Equal(t, jan(1), NewRange(jan(3), jan(1)).From)
}

func TestRangeDays(t *testing.T) {
	r := NewRange(NewDate(2024, time.February, 27), NewDate(2024, time.March, 2))

	assert.Equal(t, 5, r.Len())
	days := r.Days()
	assert.Len(t, days, 5)
	assert.Equal(t, "2024-02-29", days[2].String())
	assert.Nil(t, DateRange{From: jan(1)}.Days())
}

func TestRangeIsEndpoint(t *testing.T) {
	r := NewRange(jan(5), jan(10))
	assert.True(t, r.IsEndpoint(jan(5)))
	assert.True(t, r.IsEndpoint(jan(10)))
	assert.False(t, r.IsEndpoint(jan(7)))
	assert.False(t, DateRange{From: jan(5)}.IsEndpoint(Date{}))
}

func TestRangeString(t *testing.T) {
	assert.Equal(t, "2024-01-05..2024-01-10", NewRange(jan(10), jan(5)).String())
	assert.Equal(t, "2024-01-05..", DateRange{From: jan(5)}.String())
	assert.Equal(t, "", DateRange{}.String())
}
