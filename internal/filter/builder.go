package filter

import (
	"errors"
	"time"
)

// ErrNoValidDates is returned by Build when no year in range has the
// requested month and day.
var ErrNoValidDates = errors.New("no valid dates for month/day")

// TimestampLayout is the wire format of range bounds, pinned to +09:00.
const TimestampLayout = "2006-01-02T15:04:05+09:00"

// JST is the fixed UTC+9 zone day windows are expressed in.
var JST = time.FixedZone("JST", 9*60*60)

const (
	// DefaultStartYear is the first year searched.
	DefaultStartYear = 2007

	// DefaultField is the field range predicates apply to.
	DefaultField = "startTime"

	// DefaultTagField is the field the exclusion predicate applies to.
	DefaultTagField = "tags"

	// DefaultExcludeTag marks covers; such entries are excluded.
	DefaultExcludeTag = "歌ってみた"
)

// Builder constructs the "same day in every year" filter.
//
// For a month and day, Build emits one half-open 24-hour range per valid
// year from StartYear through the current year plus YearsAhead, ORs them,
// and ANDs the result with a negated exact match on ExcludeTag:
//
//	b := filter.NewBuilder()
//	expr, err := b.Build(12, 25)
//	jsonFilter, _ := filter.Encode(expr)
type Builder struct {
	// StartYear is the first year included.
	StartYear int

	// YearsAhead extends the last year past the current one.
	YearsAhead int

	// Field is the timestamp field the ranges apply to.
	Field string

	// TagField and ExcludeTag form the negated equal predicate.
	TagField   string
	ExcludeTag string

	// Now supplies the current time; the current year is read in JST.
	Now func() time.Time
}

// NewBuilder returns a Builder with the default years, fields and tag.
func NewBuilder() *Builder {
	return &Builder{
		StartYear:  DefaultStartYear,
		YearsAhead: 1,
		Field:      DefaultField,
		TagField:   DefaultTagField,
		ExcludeTag: DefaultExcludeTag,
		Now:        time.Now,
	}
}

// EndYear returns the last year included, inclusive.
func (b *Builder) EndYear() int {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	return now().In(JST).Year() + b.YearsAhead
}

// Years returns every year in range for which month/day is a real date.
//
// Years that lack the date (February 29 outside leap years) are skipped.
func (b *Builder) Years(month, day int) []int {
	var years []int
	for year := b.StartYear; year <= b.EndYear(); year++ {
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, JST)
		if d.Year() != year || int(d.Month()) != month || d.Day() != day {
			continue
		}
		years = append(years, year)
	}
	return years
}

// Build returns the filter for month/day.
//
// Returns ErrNoValidDates when no year has that date, which only happens for
// impossible combinations such as 2/30 or month 13.
func (b *Builder) Build(month, day int) (Expression, error) {
	years := b.Years(month, day)
	if len(years) == 0 {
		return nil, ErrNoValidDates
	}

	ranges := make([]Expression, 0, len(years))
	for _, year := range years {
		from := time.Date(year, time.Month(month), day, 0, 0, 0, 0, JST)
		to := from.AddDate(0, 0, 1)
		ranges = append(ranges, Range{
			Field:        b.Field,
			From:         from.Format(TimestampLayout),
			To:           to.Format(TimestampLayout),
			IncludeLower: true,
		})
	}

	return And{Filters: []Expression{
		Or{Filters: ranges},
		Not{Filter: Equal{Field: b.TagField, Value: b.ExcludeTag}},
	}}, nil
}
