package web

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/core/user"
	"github.com/trezcool/garderie/services/apiclient"
)

type adminPages struct {
	*Server
}

func registerAdminPages(g *echo.Group, s *Server) {
	ap := adminPages{s}

	g.GET("", ap.dashboard)

	g.GET("/children", ap.listChildren)
	g.GET("/children/new", ap.newChild)
	g.POST("/children", ap.createChild)
	g.GET("/children/:id/edit", ap.editChild)
	g.POST("/children/:id", ap.updateChild)
	g.POST("/children/:id/delete", ap.deleteChild)

	g.GET("/classes", ap.listClasses)
	g.POST("/classes", ap.createClass)
	g.GET("/classes/:id/edit", ap.editClass)
	g.POST("/classes/:id", ap.updateClass)
	g.POST("/classes/:id/delete", ap.deleteClass)

	g.GET("/users", ap.listUsers)
	g.POST("/users", ap.createUser)
	g.POST("/users/:id/delete", ap.deleteUser)

	registerPlanningPages(g, ap)
}

// Helpers

func paramID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

func pageNumber(ctx echo.Context) int {
	n, _ := strconv.Atoi(ctx.QueryParam("page"))
	return n
}

func classNames(classes []daycare.Class) map[int]string {
	names := make(map[int]string, len(classes))
	for _, c := range classes {
		names[c.ID] = c.Name
	}
	return names
}

func userNames(users []user.User) map[int]string {
	names := make(map[int]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName()
	}
	return names
}

// upcoming returns the events not ended at now, soonest first, at most n.
func upcoming(events []daycare.Event, now time.Time, n int) []daycare.Event {
	res := make([]daycare.Event, 0, len(events))
	for _, e := range events {
		if !e.EndsAt.Before(now) {
			res = append(res, e)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].StartsAt.Before(res[j].StartsAt) })
	if n > 0 && len(res) > n {
		res = res[:n]
	}
	return res
}

// Dashboard

type dashboardData struct {
	Stats  *daycare.DashboardStats
	Events []daycare.Event
}

func (ap adminPages) dashboard(ctx echo.Context) error {
	st := getState(ctx)

	var data dashboardData
	var events []daycare.Event
	err := load(ctx.Request().Context(),
		fetch(&data.Stats, st.api.DashboardStats),
		fetch(&events, st.api.ListEvents),
	)
	if err != nil {
		return err
	}
	data.Events = upcoming(events, time.Now(), 5)
	return ap.render(ctx, http.StatusOK, "admin_dashboard", page{Title: "nav.dashboard", Data: data})
}

// Children

type childrenData struct {
	Filter     daycare.ChildFilter
	Page       daycare.Page[daycare.Child]
	Classes    []daycare.Class
	ClassNames map[int]string
	Editable   bool
	BasePath   string
	Now        time.Time
}

// childrenPage renders the filtered children list, with err shown inline when a mutation failed.
func (ap adminPages) childrenPage(ctx echo.Context, filter daycare.ChildFilter, err error) error {
	if expired(err) {
		return err
	}
	st := getState(ctx)

	var children []daycare.Child
	var classes []daycare.Class
	loadErr := load(ctx.Request().Context(),
		fetch(&children, func(ctx context.Context) ([]daycare.Child, error) {
			return st.api.ListChildren(ctx, apiclient.ChildQuery{})
		}),
		fetch(&classes, st.api.ListClasses),
	)
	if loadErr != nil {
		return loadErr
	}

	p := page{Title: "nav.children", Data: childrenData{
		Filter:     filter,
		Page:       daycare.Paginate(daycare.FilterChildren(children, filter), pageNumber(ctx), daycare.DefaultPageSize),
		Classes:    classes,
		ClassNames: classNames(classes),
		Editable:   true,
		BasePath:   "/admin/children",
		Now:        time.Now(),
	}}
	if err != nil {
		return ap.renderForm(ctx, "children", p, err)
	}
	return ap.render(ctx, http.StatusOK, "children", p)
}

func (ap adminPages) listChildren(ctx echo.Context) error {
	var filter daycare.ChildFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to ChildFilter")
	}
	filter.Clean()
	return ap.childrenPage(ctx, filter, nil)
}

type childFormData struct {
	ID      int // 0 for a new child
	Form    daycare.ChildForm
	Classes []daycare.Class
	Parents []user.User
}

// childForm renders the child form, loading the classes and parent accounts it offers.
func (ap adminPages) childForm(ctx echo.Context, data childFormData, err error) error {
	if expired(err) {
		return err
	}
	st := getState(ctx)
	loadErr := load(ctx.Request().Context(),
		fetch(&data.Classes, st.api.ListClasses),
		fetch(&data.Parents, func(ctx context.Context) ([]user.User, error) {
			return st.api.ListUsers(ctx, user.RoleParent)
		}),
	)
	if loadErr != nil {
		return loadErr
	}

	title := "action.create"
	if data.ID > 0 {
		title = "action.edit"
	}
	p := page{Title: title, Data: data}
	if err != nil {
		return ap.renderForm(ctx, "child_form", p, err)
	}
	return ap.render(ctx, http.StatusOK, "child_form", p)
}

func (ap adminPages) newChild(ctx echo.Context) error {
	return ap.childForm(ctx, childFormData{}, nil)
}

func (ap adminPages) createChild(ctx echo.Context) error {
	st := getState(ctx)

	var form daycare.ChildForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to ChildForm")
	}
	err := form.Validate(ap.deps.Validate)
	if err == nil {
		_, err = st.api.CreateChild(ctx.Request().Context(), form.Child())
	}
	if err != nil {
		return ap.childForm(ctx, childFormData{Form: form}, err)
	}
	return ap.redirect(ctx, "/admin/children", "flash.created")
}

func (ap adminPages) editChild(ctx echo.Context) error {
	st := getState(ctx)
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	child, err := st.api.GetChild(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ap.childForm(ctx, childFormData{ID: id, Form: daycare.ChildFormFrom(*child)}, nil)
}

func (ap adminPages) updateChild(ctx echo.Context) error {
	st := getState(ctx)
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var form daycare.ChildForm
	if err = ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to ChildForm")
	}
	err = form.Validate(ap.deps.Validate)
	if err == nil {
		_, err = st.api.UpdateChild(ctx.Request().Context(), id, form.Child())
	}
	if err != nil {
		return ap.childForm(ctx, childFormData{ID: id, Form: form}, err)
	}
	return ap.redirect(ctx, "/admin/children", "flash.updated")
}

func (ap adminPages) deleteChild(ctx echo.Context) error {
	st := getState(ctx)
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	if err = st.api.DeleteChild(ctx.Request().Context(), id); err != nil {
		return ap.childrenPage(ctx, daycare.ChildFilter{}, err)
	}
	return ap.redirect(ctx, "/admin/children", "flash.deleted")
}

// Classes

type classesData struct {
	Classes      []daycare.Class
	TeacherNames map[int]string
	Teachers     []user.User
	EditID       int
	Form         daycare.ClassForm
}

// classesPage renders the classes with a create form, or the edit form of data.EditID.
func (ap adminPages) classesPage(ctx echo.Context, data classesData, err error) error {
	if expired(err) {
		return err
	}
	st := getState(ctx)
	loadErr := load(ctx.Request().Context(),
		fetch(&data.Classes, st.api.ListClasses),
		fetch(&data.Teachers, func(ctx context.Context) ([]user.User, error) {
			return st.api.ListUsers(ctx, user.RoleTeacher)
		}),
	)
	if loadErr != nil {
		return loadErr
	}
	data.TeacherNames = userNames(data.Teachers)

	p := page{Title: "nav.classes", Data: data}
	if err != nil {
		return ap.renderForm(ctx, "classes", p, err)
	}
	return ap.render(ctx, http.StatusOK, "classes", p)
}

func (ap adminPages) listClasses(ctx echo.Context) error {
	return ap.classesPage(ctx, classesData{Form: newClassForm()}, nil)
}

func newClassForm() daycare.ClassForm {
	return daycare.ClassForm{Capacity: 10, Active: true}
}

func (ap adminPages) createClass(ctx echo.Context) error {
	st := getState(ctx)

	var form daycare.ClassForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to ClassForm")
	}
	err := form.Validate(ap.deps.Validate)
	if err == nil {
		_, err = st.api.CreateClass(ctx.Request().Context(), form.Class())
	}
	if err != nil {
		return ap.classesPage(ctx, classesData{Form: form}, err)
	}
	return ap.redirect(ctx, "/admin/classes", "flash.created")
}

func (ap adminPages) editClass(ctx echo.Context) error {
	st := getState(ctx)
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	classes, err := st.api.ListClasses(ctx.Request().Context())
	if err != nil {
		return err
	}
	for _, c := range classes {
		if c.ID == id {
			form := daycare.ClassForm{
				Name:       c.Name,
				Capacity:   c.Capacity,
				MinAge:     c.MinAge,
				MaxAge:     c.MaxAge,
				Active:     c.Active,
				TeacherIDs: c.TeacherIDs,
			}
			return ap.classesPage(ctx, classesData{EditID: id, Form: form}, nil)
		}
	}
	return echo.ErrNotFound
}

func (ap adminPages) updateClass(ctx echo.Context) error {
	st := getState(ctx)
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var form daycare.ClassForm
	if err = ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to ClassForm")
	}
	err = form.Validate(ap.deps.Validate)
	if err == nil {
		_, err = st.api.UpdateClass(ctx.Request().Context(), id, form.Class())
	}
	if err != nil {
		return ap.classesPage(ctx, classesData{EditID: id, Form: form}, err)
	}
	return ap.redirect(ctx, "/admin/classes", "flash.updated")
}

func (ap adminPages) deleteClass(ctx echo.Context) error {
	st := getState(ctx)
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	if err = st.api.DeleteClass(ctx.Request().Context(), id); err != nil {
		return ap.classesPage(ctx, classesData{Form: newClassForm()}, err)
	}
	return ap.redirect(ctx, "/admin/classes", "flash.deleted")
}

// Users

type usersData struct {
	Filter user.QueryFilter
	Page   daycare.Page[user.User]
	Roles  []user.Role
	Form   user.NewUser
}

func (ap adminPages) usersPage(ctx echo.Context, data usersData, err error) error {
	if expired(err) {
		return err
	}
	st := getState(ctx)
	users, loadErr := st.api.ListUsers(ctx.Request().Context(), "")
	if loadErr != nil {
		return loadErr
	}
	data.Page = daycare.Paginate(user.Filter(users, data.Filter), pageNumber(ctx), daycare.DefaultPageSize)
	data.Roles = user.Roles

	p := page{Title: "nav.users", Data: data}
	if err != nil {
		return ap.renderForm(ctx, "users", p, err)
	}
	return ap.render(ctx, http.StatusOK, "users", p)
}

func (ap adminPages) listUsers(ctx echo.Context) error {
	var filter user.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	return ap.usersPage(ctx, usersData{Filter: filter, Form: user.NewUser{Role: user.RoleParent}}, nil)
}

func (ap adminPages) createUser(ctx echo.Context) error {
	st := getState(ctx)

	var nu user.NewUser
	if err := ctx.Bind(&nu); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	err := nu.Validate(ap.deps.Validate)
	if err == nil {
		_, err = st.api.CreateUser(ctx.Request().Context(), nu)
	}
	if err != nil {
		nu.Password, nu.PasswordConfirm = "", ""
		return ap.usersPage(ctx, usersData{Form: nu}, err)
	}
	return ap.redirect(ctx, "/admin/users", "flash.created")
}

func (ap adminPages) deleteUser(ctx echo.Context) error {
	st := getState(ctx)
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	if usr := st.auth.User(); usr != nil && usr.ID == id {
		return echo.ErrForbidden
	}
	if err = st.api.DeleteUser(ctx.Request().Context(), id); err != nil {
		return ap.usersPage(ctx, usersData{Form: user.NewUser{Role: user.RoleParent}}, err)
	}
	return ap.redirect(ctx, "/admin/users", "flash.deleted")
}
