package web

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/core/user"
	"github.com/trezcool/garderie/services/apiclient"
)

// Admin pages organizing the days: menus, events, inscriptions and presences.

func registerPlanningPages(g *echo.Group, ap adminPages) {
	g.GET("/menus", ap.listMenus)
	g.POST("/menus", ap.createMenu)
	g.POST("/menus/:id/publish", ap.publishMenu)
	g.POST("/menus/:id/delete", ap.deleteMenu)

	g.GET("/events", ap.listEvents)
	g.POST("/events", ap.createEvent)
	g.POST("/events/:id/delete", ap.deleteEvent)

	g.GET("/inscriptions", ap.listInscriptions)
	g.POST("/inscriptions/:id/status", ap.setInscriptionStatus)

	g.GET("/presences", ap.listPresences)
	g.GET("/presences/export", ap.exportPresences)
}

// Menus

func (ap adminPages) menusPage(ctx echo.Context, form *daycare.MenuForm, err error) error {
	if expired(err) {
		return err
	}
	data, loadErr := ap.weekMenus(ctx, true)
	if loadErr != nil {
		return loadErr
	}
	data.BasePath = "/admin/menus"
	if form != nil {
		data.Form = *form
	}

	p := page{Title: "nav.menus", Data: data}
	if err != nil {
		return ap.renderForm(ctx, "menus", p, err)
	}
	return ap.render(ctx, http.StatusOK, "menus", p)
}

func (ap adminPages) listMenus(ctx echo.Context) error {
	return ap.menusPage(ctx, nil, nil)
}

func (ap adminPages) createMenu(ctx echo.Context) error {
	st := getState(ctx)

	var form daycare.MenuForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to MenuForm")
	}
	err := form.Validate(ap.deps.Validate)
	if err == nil {
		_, err = st.api.CreateMenu(ctx.Request().Context(), form.Menu())
	}
	if err != nil {
		return ap.menusPage(ctx, &form, err)
	}
	return ap.redirect(ctx, "/admin/menus?week="+form.Date, "flash.created")
}

// findMenu looks the menu up among every menu, the API having no menu detail endpoint.
func findMenu(ctx context.Context, api *apiclient.Client, id int) (*daycare.Menu, error) {
	menus, err := api.ListMenus(ctx, apiclient.MenuQuery{})
	if err != nil {
		return nil, err
	}
	for _, m := range menus {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, echo.ErrNotFound
}

func (ap adminPages) publishMenu(ctx echo.Context) error {
	st := getState(ctx)
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	menu, err := findMenu(ctx.Request().Context(), st.api, id)
	if err != nil {
		return err
	}
	menu.Status = daycare.MenuPublished
	if _, err = st.api.UpdateMenu(ctx.Request().Context(), id, *menu); err != nil {
		return ap.menusPage(ctx, nil, err)
	}
	return ap.redirect(ctx, "/admin/menus?week="+menu.Date, "flash.updated")
}

func (ap adminPages) deleteMenu(ctx echo.Context) error {
	st := getState(ctx)
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	if err = st.api.DeleteMenu(ctx.Request().Context(), id); err != nil {
		return ap.menusPage(ctx, nil, err)
	}
	return ap.redirect(ctx, "/admin/menus?week="+ctx.FormValue("week"), "flash.deleted")
}

// Events

func (ap adminPages) eventsPage(ctx echo.Context, form daycare.EventForm, err error) error {
	if expired(err) {
		return err
	}
	st := getState(ctx)
	data, loadErr := ap.loadEvents(ctx.Request().Context(), st.api, nil)
	if loadErr != nil {
		return loadErr
	}
	data.Editable = true
	data.Form = form

	p := page{Title: "nav.events", Data: data}
	if err != nil {
		return ap.renderForm(ctx, "events", p, err)
	}
	return ap.render(ctx, http.StatusOK, "events", p)
}

func (ap adminPages) listEvents(ctx echo.Context) error {
	return ap.eventsPage(ctx, newEventForm(), nil)
}

func newEventForm() daycare.EventForm {
	return daycare.EventForm{Date: today(), StartTime: "09:00", EndTime: "10:00"}
}

func (ap adminPages) createEvent(ctx echo.Context) error {
	st := getState(ctx)

	var form daycare.EventForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to EventForm")
	}
	err := form.Validate(ap.deps.Validate)
	if err == nil {
		_, err = st.api.CreateEvent(ctx.Request().Context(), form.Event(time.Local))
	}
	if err != nil {
		return ap.eventsPage(ctx, form, err)
	}
	return ap.redirect(ctx, "/admin/events", "flash.created")
}

func (ap adminPages) deleteEvent(ctx echo.Context) error {
	st := getState(ctx)
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	if err = st.api.DeleteEvent(ctx.Request().Context(), id); err != nil {
		return ap.eventsPage(ctx, newEventForm(), err)
	}
	return ap.redirect(ctx, "/admin/events", "flash.deleted")
}

// Inscriptions

type inscriptionsData struct {
	Filter   daycare.InscriptionFilter
	Page     daycare.Page[daycare.Inscription]
	Statuses []string
}

func (ap adminPages) inscriptionsPage(ctx echo.Context, filter daycare.InscriptionFilter, err error) error {
	if expired(err) {
		return err
	}
	st := getState(ctx)
	inscriptions, loadErr := st.api.ListInscriptions(ctx.Request().Context(), "")
	if loadErr != nil {
		return loadErr
	}
	data := inscriptionsData{
		Filter:   filter,
		Page:     daycare.Paginate(daycare.FilterInscriptions(inscriptions, filter), pageNumber(ctx), daycare.DefaultPageSize),
		Statuses: daycare.InscriptionStatuses,
	}

	p := page{Title: "nav.inscriptions", Data: data}
	if err != nil {
		return ap.renderForm(ctx, "inscriptions", p, err)
	}
	return ap.render(ctx, http.StatusOK, "inscriptions", p)
}

func (ap adminPages) listInscriptions(ctx echo.Context) error {
	var filter daycare.InscriptionFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to InscriptionFilter")
	}
	filter.Clean()
	return ap.inscriptionsPage(ctx, filter, nil)
}

// setInscriptionStatus moves an inscription along its workflow, notifying the guardian of decisions.
func (ap adminPages) setInscriptionStatus(ctx echo.Context) error {
	st := getState(ctx)
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	inscriptions, err := st.api.ListInscriptions(ctx.Request().Context(), "")
	if err != nil {
		return err
	}
	var current *daycare.Inscription
	for i := range inscriptions {
		if inscriptions[i].ID == id {
			current = &inscriptions[i]
			break
		}
	}
	if current == nil {
		return echo.ErrNotFound
	}

	next, err := current.Transition(ctx.FormValue("status"))
	if err == nil {
		var updated *daycare.Inscription
		if updated, err = st.api.SetInscriptionStatus(ctx.Request().Context(), id, next.Status); err == nil {
			next = *updated
		}
	}
	if err != nil {
		return ap.inscriptionsPage(ctx, daycare.InscriptionFilter{}, err)
	}

	if msg := daycare.InscriptionDecisionMessage(next, next.Locale); msg != nil {
		ap.deps.MailSvc.SendMessages(msg)
	}
	return ap.redirect(ctx, "/admin/inscriptions", "flash.updated")
}

// Presences

type presencesData struct {
	Date    string
	ClassID int
	Classes []daycare.Class
	Rows    []daycare.PresenceRow
	Present int
	Absent  int
}

// presenceRows loads the presences of a day, optionally restricted to a class, with names resolved.
func (ap adminPages) presenceRows(ctx echo.Context, date string, classID int) (presencesData, error) {
	st := getState(ctx)
	data := presencesData{Date: date, ClassID: classID}

	var children []daycare.Child
	var presences []daycare.Presence
	var staff []user.User
	err := load(ctx.Request().Context(),
		fetch(&children, func(ctx context.Context) ([]daycare.Child, error) {
			return st.api.ListChildren(ctx, apiclient.ChildQuery{ClassID: classID})
		}),
		fetch(&data.Classes, st.api.ListClasses),
		fetch(&presences, func(ctx context.Context) ([]daycare.Presence, error) {
			return st.api.ListPresences(ctx, apiclient.PresenceQuery{Date: date, ClassID: classID})
		}),
		fetch(&staff, func(ctx context.Context) ([]user.User, error) {
			return st.api.ListUsers(ctx, "")
		}),
	)
	if err != nil {
		return data, err
	}

	data.Rows = daycare.PresenceRows(presences, children, data.Classes, userNames(staff))
	for _, p := range presences {
		if p.Status == daycare.PresencePresent {
			data.Present++
		} else {
			data.Absent++
		}
	}
	return data, nil
}

func (ap adminPages) listPresences(ctx echo.Context) error {
	data, err := ap.presenceRows(ctx, dateParam(ctx, "date"), queryClassID(ctx))
	if err != nil {
		return err
	}
	return ap.render(ctx, http.StatusOK, "presences", page{Title: "nav.presences", Data: data})
}

// exportPresences downloads the presences of a day as CSV.
func (ap adminPages) exportPresences(ctx echo.Context) error {
	date := dateParam(ctx, "date")
	data, err := ap.presenceRows(ctx, date, queryClassID(ctx))
	if err != nil {
		return err
	}

	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	resp.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+daycare.PresencesFilename(date)+`"`)
	resp.WriteHeader(http.StatusOK)
	return errors.Wrap(daycare.WritePresencesCSV(resp, data.Rows), "writing presences CSV")
}
