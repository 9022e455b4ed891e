package web

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/services/apiclient"
)

// presenceHistoryDays is how far back parents see their children's presences.
const presenceHistoryDays = 30

type parentPages struct {
	*Server
}

func registerParentPages(g *echo.Group, s *Server) {
	pp := parentPages{s}

	g.GET("", pp.home)
	g.GET("/children", pp.listChildren)
	g.GET("/resumes", pp.listResumes)
	g.GET("/menus", pp.listMenus)
	g.GET("/events", pp.listEvents)
}

func (pp parentPages) home(ctx echo.Context) error {
	return ctx.Redirect(http.StatusSeeOther, getState(ctx).ui.Path("/parent/children"))
}

// ownChildren returns the children the logged in parent is a guardian of.
func ownChildren(ctx context.Context, st *state) ([]daycare.Child, error) {
	children, err := st.api.ListChildren(ctx, apiclient.ChildQuery{})
	if err != nil {
		return nil, err
	}
	return daycare.ChildrenOf(children, st.auth.User().ID), nil
}

type parentChildrenData struct {
	Children   []daycare.Child
	ClassNames map[int]string
	From       string
	Now        time.Time
}

// listChildren shows each child with its recent presences, loaded concurrently.
func (pp parentPages) listChildren(ctx echo.Context) error {
	st := getState(ctx)
	now := time.Now()
	data := parentChildrenData{
		From: now.AddDate(0, 0, -presenceHistoryDays).Format(core.DateLayout),
		Now:  now,
	}

	var classes []daycare.Class
	err := load(ctx.Request().Context(),
		fetch(&data.Children, func(ctx context.Context) ([]daycare.Child, error) { return ownChildren(ctx, st) }),
		fetch(&classes, st.api.ListClasses),
	)
	if err != nil {
		return err
	}
	data.ClassNames = classNames(classes)

	tasks := make([]task, 0, len(data.Children))
	for i := range data.Children {
		child := &data.Children[i]
		q := apiclient.PresenceQuery{ChildID: child.ID, From: data.From, To: now.Format(core.DateLayout)}
		tasks = append(tasks, fetch(&child.Presences, func(ctx context.Context) ([]daycare.Presence, error) {
			return st.api.ListPresences(ctx, q)
		}))
	}
	if err = load(ctx.Request().Context(), tasks...); err != nil {
		return err
	}

	return pp.render(ctx, http.StatusOK, "parent_children", page{Title: "nav.children", Data: data})
}

func (pp parentPages) listResumes(ctx echo.Context) error {
	st := getState(ctx)
	date := dateParam(ctx, "date")

	children, err := ownChildren(ctx.Request().Context(), st)
	if err != nil {
		return err
	}

	perChild := make([][]daycare.DailyResume, len(children))
	tasks := make([]task, 0, len(children))
	for i, c := range children {
		q := apiclient.ResumeQuery{Date: date, ChildID: c.ID}
		tasks = append(tasks, fetch(&perChild[i], func(ctx context.Context) ([]daycare.DailyResume, error) {
			return st.api.ListDailyResumes(ctx, q)
		}))
	}
	if err = load(ctx.Request().Context(), tasks...); err != nil {
		return err
	}

	var resumes []daycare.DailyResume
	for _, rs := range perChild {
		resumes = append(resumes, rs...)
	}
	return pp.render(ctx, http.StatusOK, "resumes", page{Title: "nav.resumes", Data: resumesData{
		Date:    date,
		Lines:   resumeLines(children, resumes),
		Choices: resumeChoices,
	}})
}

func (pp parentPages) listMenus(ctx echo.Context) error {
	data, err := pp.weekMenus(ctx, false)
	if err != nil {
		return err
	}
	data.BasePath = "/parent/menus"
	return pp.render(ctx, http.StatusOK, "menus", page{Title: "nav.menus", Data: data})
}

// listEvents shows the events of every class and those of the parent's children classes.
func (pp parentPages) listEvents(ctx echo.Context) error {
	st := getState(ctx)
	children, err := ownChildren(ctx.Request().Context(), st)
	if err != nil {
		return err
	}
	classIDs := make([]int, 0, len(children))
	for _, c := range children {
		if c.ClassID.Valid {
			classIDs = append(classIDs, c.ClassID.Int)
		}
	}

	data, err := pp.loadEvents(ctx.Request().Context(), st.api, func([]daycare.Class) []int { return classIDs })
	if err != nil {
		return err
	}
	return pp.render(ctx, http.StatusOK, "events", page{Title: "nav.events", Data: data})
}
