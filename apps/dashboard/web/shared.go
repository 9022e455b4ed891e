package web

import (
	"context"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/services/apiclient"
)

// Pages shown to every role: weekly menus and events.

func today() string {
	return time.Now().Format(core.DateLayout)
}

// dateParam returns the `name` query param when it is a valid date, today otherwise.
func dateParam(ctx echo.Context, name string) string {
	d := ctx.QueryParam(name)
	if _, err := daycare.ParseDate(d); err != nil {
		return today()
	}
	return d
}

// queryClassID returns the class_id query param, 0 when missing or invalid.
func queryClassID(ctx echo.Context) int {
	var id int
	if err := echo.QueryParamsBinder(ctx).Int("class_id", &id).BindError(); err != nil || id < 0 {
		return 0
	}
	return id
}

type menusData struct {
	Days     []daycare.DayMenus
	Monday   daycare.Day
	Prev     string // YYYY-MM-DD of the previous Monday
	Next     string
	Editable bool
	BasePath string
	Form     daycare.MenuForm
}

// weekMenus loads the menus of the week holding the `week` param (today by default).
// Drafts are only kept when editable.
func (s *Server) weekMenus(ctx echo.Context, editable bool) (menusData, error) {
	st := getState(ctx)

	base := time.Now()
	if t, err := time.ParseInLocation(core.DateLayout, ctx.FormValue("week"), time.Local); err == nil {
		base = t
	}
	days := daycare.WeekDays(base, st.ui.Translator())

	q := apiclient.MenuQuery{From: days[0].ISO, To: days[len(days)-1].ISO}
	if !editable {
		q.Status = daycare.MenuPublished
	}
	menus, err := st.api.ListMenus(ctx.Request().Context(), q)
	if err != nil {
		return menusData{}, err
	}
	if !editable {
		menus = daycare.PublishedMenus(menus)
	}

	monday := days[0].Date
	return menusData{
		Days:     daycare.BucketMenus(days, menus),
		Monday:   days[0],
		Prev:     monday.AddDate(0, 0, -7).Format(core.DateLayout),
		Next:     monday.AddDate(0, 0, 7).Format(core.DateLayout),
		Editable: editable,
		Form:     daycare.MenuForm{Date: days[0].ISO},
	}, nil
}

type eventsData struct {
	Events     []daycare.Event
	ClassNames map[int]string
	Classes    []daycare.Class
	Editable   bool
	Form       daycare.EventForm
}

// loadEvents loads the events and classes; a non-nil visible keeps only the events of those classes.
func (s *Server) loadEvents(ctx context.Context, api *apiclient.Client, visible func([]daycare.Class) []int) (eventsData, error) {
	var data eventsData
	err := load(ctx,
		fetch(&data.Events, api.ListEvents),
		fetch(&data.Classes, api.ListClasses),
	)
	if err != nil {
		return data, err
	}
	if visible != nil {
		data.Events = daycare.EventsFor(data.Events, visible(data.Classes)...)
	}
	sort.SliceStable(data.Events, func(i, j int) bool {
		return data.Events[i].StartsAt.Before(data.Events[j].StartsAt)
	})
	data.ClassNames = classNames(data.Classes)
	return data, nil
}
