package daycare

import (
	"time"

	"github.com/go-playground/locales"

	"github.com/trezcool/garderie/core"
)

// Day is one column of the weekly view.
type Day struct {
	Date  time.Time
	ISO   string // YYYY-MM-DD
	Label string // localized weekday name
	Short string // localized abbreviated weekday name
}

type DayMenus struct {
	Day
	Menus []Menu
}

// WeekStart returns midnight of the Monday of t's week, in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// WeekDays returns the seven consecutive days of base's week, Monday first, labelled with trans.
func WeekDays(base time.Time, trans locales.Translator) []Day {
	start := WeekStart(base)
	days := make([]Day, 7)
	for i := range days {
		// AddDate keeps midnight across DST changes, unlike Add(24h)
		d := start.AddDate(0, 0, i)
		days[i] = Day{
			Date:  d,
			ISO:   d.Format(core.DateLayout),
			Label: trans.WeekdayWide(d.Weekday()),
			Short: trans.WeekdayAbbreviated(d.Weekday()),
		}
	}
	return days
}

// BucketMenus groups menus under the day matching their date; menus outside the week are dropped.
func BucketMenus(days []Day, menus []Menu) []DayMenus {
	idx := make(map[string]int, len(days))
	res := make([]DayMenus, len(days))
	for i, d := range days {
		idx[d.ISO] = i
		res[i] = DayMenus{Day: d, Menus: make([]Menu, 0)}
	}
	for _, m := range menus {
		if i, ok := idx[m.Date]; ok {
			res[i].Menus = append(res[i].Menus, m)
		}
	}
	return res
}

// PublishedMenus filters out draft menus.
func PublishedMenus(menus []Menu) []Menu {
	res := make([]Menu, 0, len(menus))
	for _, m := range menus {
		if m.IsPublished() {
			res = append(res, m)
		}
	}
	return res
}
