package daily

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// DateLayout is how game dates are stored and compared.
const DateLayout = "2006-01-02"

// Calendar turns instants into game dates. A game day starts at CutoverHour in
// Location, so 05:59 still belongs to the previous date.
type Calendar struct {
	loc     *time.Location
	cutover int
	epoch   time.Time
}

// NewCalendar loads tz and parses the epoch date (day index 0).
func NewCalendar(tz string, cutoverHour int, epoch string) (*Calendar, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	if cutoverHour < 0 || cutoverHour > 23 {
		return nil, fmt.Errorf("cutover hour %d out of range", cutoverHour)
	}
	e, err := time.Parse(DateLayout, epoch)
	if err != nil {
		return nil, fmt.Errorf("parse epoch date %q: %w", epoch, err)
	}
	return &Calendar{loc: loc, cutover: cutoverHour, epoch: e}, nil
}

// GameDate returns the game date that now falls in.
func (c *Calendar) GameDate(now time.Time) string {
	local := now.In(c.loc)
	if local.Hour() < c.cutover {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format(DateLayout)
}

// DayIndex counts whole calendar days from the epoch to date. Dates before the
// epoch are negative.
func (c *Calendar) DayIndex(date string) (int, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("parse game date %q: %w", date, err)
	}
	// both dates are UTC midnights, so the difference is an exact number of days
	return int(d.Sub(c.epoch).Hours() / 24), nil
}

// PreviousDate returns the date before date.
func PreviousDate(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse game date %q: %w", date, err)
	}
	return d.AddDate(0, 0, -1).Format(DateLayout), nil
}
