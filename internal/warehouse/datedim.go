package warehouse

import (
	"fmt"
	"time"
)

// DateDimRow is one calendar day in the date dimension.
type DateDimRow struct {
	DateKey    int
	Date       time.Time
	Year       int
	Quarter    int
	Month      int
	Day        int
	DayOfWeek  int // ISO: Monday=1 .. Sunday=7
	WeekOfYear int // ISO week number
	IsWeekend  bool
}

// InvalidRangeError indicates the requested calendar range ends before it
// starts. This is a configuration error, not a data-quality issue.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: end %s precedes start %s",
		e.End.Format("2006-01-02"), e.Start.Format("2006-01-02"))
}

// BuildDateDim generates one row per calendar day in [start, end] inclusive,
// ordered by date. Time-of-day components of the arguments are ignored.
func BuildDateDim(start, end time.Time) ([]DateDimRow, error) {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	if end.Before(start) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}

	days := int(end.Sub(start).Hours()/24) + 1
	rows := make([]DateDimRow, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		weekday := int(d.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		_, week := d.ISOWeek()
		rows = append(rows, DateDimRow{
			DateKey:    dateKey(d),
			Date:       d,
			Year:       d.Year(),
			Quarter:    (int(d.Month())-1)/3 + 1,
			Month:      int(d.Month()),
			Day:        d.Day(),
			DayOfWeek:  weekday,
			WeekOfYear: week,
			IsWeekend:  weekday >= 6,
		})
	}
	return rows, nil
}
