package scheduler

import (
	"time"

	"github.com/scmhub/calendar"
	"go.uber.org/zap"
)

// TradingCalendar answers whether US equity markets trade on a given day.
type TradingCalendar struct {
	cal *calendar.Calendar
	loc *time.Location
}

// NewTradingCalendar loads the NYSE calendar. When it cannot be loaded the
// calendar falls back to plain weekdays in New York time.
func NewTradingCalendar() *TradingCalendar {
	if cal := calendar.GetCalendar("xnys"); cal != nil {
		return &TradingCalendar{cal: cal, loc: cal.Loc}
	}
	zap.L().Warn("NYSE calendar unavailable, using weekday fallback")
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &TradingCalendar{loc: loc}
}

// IsTradingDay reports whether date is an NYSE business day.
func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.loc != nil {
		date = date.In(tc.loc)
	}
	if tc.cal == nil {
		wd := date.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}
	return tc.cal.IsBusinessDay(date)
}
