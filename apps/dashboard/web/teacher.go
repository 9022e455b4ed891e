package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/services/apiclient"
)

type teacherPages struct {
	*Server
}

func registerTeacherPages(g *echo.Group, s *Server) {
	tp := teacherPages{s}

	g.GET("", tp.home)
	g.GET("/children", tp.listChildren)
	g.GET("/presences", tp.presenceSheet)
	g.POST("/presences", tp.recordPresences)
	g.GET("/resumes", tp.listResumes)
	g.POST("/resumes", tp.createResume)
	g.GET("/menus", tp.listMenus)
	g.GET("/events", tp.listEvents)
}

func (tp teacherPages) home(ctx echo.Context) error {
	return ctx.Redirect(http.StatusSeeOther, getState(ctx).ui.Path("/teacher/children"))
}

// ownClasses returns the classes the logged in teacher is assigned to.
func ownClasses(ctx context.Context, st *state) ([]daycare.Class, error) {
	classes, err := st.api.ListClasses(ctx)
	if err != nil {
		return nil, err
	}
	return daycare.ClassesOf(classes, st.auth.User().ID), nil
}

// selectedClass returns the class_id query param when it is one of classes, else the first class.
func selectedClass(ctx echo.Context, classes []daycare.Class) (int, bool) {
	id := queryClassID(ctx)
	if id == 0 && ctx.Request().Method == http.MethodPost {
		id, _ = strconv.Atoi(ctx.FormValue("class_id"))
	}
	for _, c := range classes {
		if c.ID == id {
			return id, true
		}
	}
	if id == 0 && len(classes) > 0 {
		return classes[0].ID, true
	}
	return 0, false
}

func (tp teacherPages) listChildren(ctx echo.Context) error {
	st := getState(ctx)

	var filter daycare.ChildFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to ChildFilter")
	}
	filter.Clean()

	var classes []daycare.Class
	var children []daycare.Child
	err := load(ctx.Request().Context(),
		fetch(&classes, func(ctx context.Context) ([]daycare.Class, error) { return ownClasses(ctx, st) }),
		fetch(&children, func(ctx context.Context) ([]daycare.Child, error) {
			return st.api.ListChildren(ctx, apiclient.ChildQuery{})
		}),
	)
	if err != nil {
		return err
	}

	// children of the teacher's classes only
	ids := daycare.ClassIDs(classes)
	own := make([]daycare.Child, 0, len(children))
	for _, c := range children {
		if c.ClassID.Valid && containsInt(ids, c.ClassID.Int) {
			own = append(own, c)
		}
	}

	return tp.render(ctx, http.StatusOK, "children", page{Title: "nav.children", Data: childrenData{
		Filter:     filter,
		Page:       daycare.Paginate(daycare.FilterChildren(own, filter), pageNumber(ctx), daycare.DefaultPageSize),
		Classes:    classes,
		ClassNames: classNames(classes),
		BasePath:   "/teacher/children",
		Now:        time.Now(),
	}})
}

func containsInt(ids []int, id int) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}

// Presences

type sheetLine struct {
	Child  daycare.Child
	Status string
	Note   string
}

type sheetData struct {
	Date     string
	ClassID  int
	Classes  []daycare.Class
	Lines    []sheetLine
	Statuses []string
}

// presenceSheet shows the children of a class with their presence of the day, present by default.
func (tp teacherPages) presenceSheet(ctx echo.Context) error {
	data, err := tp.loadSheet(ctx, dateParam(ctx, "date"))
	if err != nil {
		return err
	}
	return tp.render(ctx, http.StatusOK, "presence_sheet", page{Title: "nav.presences", Data: data})
}

func (tp teacherPages) loadSheet(ctx echo.Context, date string) (sheetData, error) {
	st := getState(ctx)
	data := sheetData{Date: date, Statuses: daycare.PresenceStatuses}

	classes, err := ownClasses(ctx.Request().Context(), st)
	if err != nil {
		return data, err
	}
	data.Classes = classes
	classID, ok := selectedClass(ctx, classes)
	if !ok {
		if len(classes) == 0 {
			return data, nil
		}
		return data, echo.ErrForbidden
	}
	data.ClassID = classID

	var children []daycare.Child
	var presences []daycare.Presence
	err = load(ctx.Request().Context(),
		fetch(&children, func(ctx context.Context) ([]daycare.Child, error) {
			return st.api.ListChildren(ctx, apiclient.ChildQuery{ClassID: classID})
		}),
		fetch(&presences, func(ctx context.Context) ([]daycare.Presence, error) {
			return st.api.ListPresences(ctx, apiclient.PresenceQuery{Date: date, ClassID: classID})
		}),
	)
	if err != nil {
		return data, err
	}

	byChild := make(map[int]daycare.Presence, len(presences))
	for _, p := range presences {
		byChild[p.ChildID] = p
	}
	for _, c := range children {
		line := sheetLine{Child: c, Status: daycare.PresencePresent}
		if p, ok := byChild[c.ID]; ok {
			line.Status = p.Status
			line.Note = p.Note.String
		}
		data.Lines = append(data.Lines, line)
	}
	return data, nil
}

// recordPresences records the whole sheet of a class: one status_<child id> (and note_<child id>) per child.
func (tp teacherPages) recordPresences(ctx echo.Context) error {
	st := getState(ctx)

	date := core.CleanString(ctx.FormValue("date"))
	if _, err := daycare.ParseDate(date); err != nil {
		return tp.invalidSheetDate(ctx, date)
	}
	data, err := tp.loadSheet(ctx, date)
	if err != nil {
		return err
	}

	// line errors are keyed <field>_<child id>, like the inputs
	lineErrs := core.ValidationError{Err: errors.New(st.ui.T("error.sheet"))}
	sheet := make([]daycare.NewPresence, 0, len(data.Lines))
	for i, line := range data.Lines {
		id := strconv.Itoa(line.Child.ID)
		np := daycare.NewPresence{
			ChildID: line.Child.ID,
			Date:    date,
			Status:  ctx.FormValue("status_" + id),
			Note:    core.CleanString(ctx.FormValue("note_" + id)),
		}
		data.Lines[i].Status, data.Lines[i].Note = np.Status, np.Note
		if err := tp.deps.Validate.Struct(np); err != nil {
			vErr, ok := core.TranslateErrors(err, st.ui.Translator()).(*core.ValidationError)
			if !ok {
				return err
			}
			for _, f := range vErr.Fields {
				lineErrs.Add(f.Field+"_"+id, f.Error)
			}
			continue
		}
		sheet = append(sheet, np)
	}
	p := page{Title: "nav.presences", Data: data}
	if len(lineErrs.Fields) > 0 {
		return tp.renderForm(ctx, "presence_sheet", p, &lineErrs)
	}
	if len(sheet) > 0 {
		if _, err = st.api.RecordPresences(ctx.Request().Context(), sheet); err != nil {
			return tp.renderForm(ctx, "presence_sheet", p, err)
		}
	}
	return tp.redirect(ctx, "/teacher/presences?date="+date+"&class_id="+strconv.Itoa(data.ClassID), "flash.updated")
}

// invalidSheetDate re-renders the class picker with the date error, without a roster.
func (tp teacherPages) invalidSheetDate(ctx echo.Context, date string) error {
	st := getState(ctx)
	data := sheetData{Date: date, Statuses: daycare.PresenceStatuses}
	classes, err := ownClasses(ctx.Request().Context(), st)
	if err != nil {
		return err
	}
	data.Classes = classes
	classID, ok := selectedClass(ctx, classes)
	if !ok && len(classes) > 0 {
		return echo.ErrForbidden
	}
	data.ClassID = classID

	vErr := core.ValidationError{Err: errors.New(st.ui.T("error.sheet"))}
	vErr.Add("date", st.ui.T("error.date"))
	return tp.renderForm(ctx, "presence_sheet", page{Title: "nav.presences", Data: data}, &vErr)
}

// Daily resumes

type resumeLine struct {
	Child  daycare.Child
	Resume *daycare.DailyResume
}

type resumesData struct {
	Date     string
	ClassID  int
	Classes  []daycare.Class
	Lines    []resumeLine
	Editable bool
	Form     daycare.DailyResumeForm
	Choices  map[string][]string
}

// resumeFields are the rated fields of a daily resume, in display order.
var resumeFields = []string{"appetite", "mood", "nap", "participation"}

var resumeChoices = map[string][]string{
	"appetite":      {"good", "average", "poor"},
	"mood":          {"happy", "calm", "tired", "upset"},
	"nap":           {"none", "short", "long"},
	"participation": {"active", "moderate", "passive"},
}

// Fields returns the rated fields of the resume form.
func (d resumesData) Fields() []string {
	return resumeFields
}

// Selected reports whether value was submitted for the field of the child's resume form.
func (d resumesData) Selected(childID int, field, value string) bool {
	if d.Form.ChildID != childID {
		return false
	}
	switch field {
	case "appetite":
		return d.Form.Appetite == value
	case "mood":
		return d.Form.Mood == value
	case "nap":
		return d.Form.Nap == value
	case "participation":
		return d.Form.Participation == value
	}
	return false
}

func (tp teacherPages) resumesPage(ctx echo.Context, date string, form daycare.DailyResumeForm, err error) error {
	st := getState(ctx)
	data := resumesData{Date: date, Editable: true, Form: form, Choices: resumeChoices}

	classes, loadErr := ownClasses(ctx.Request().Context(), st)
	if loadErr != nil {
		return loadErr
	}
	data.Classes = classes
	classID, ok := selectedClass(ctx, classes)
	if !ok && len(classes) > 0 {
		return echo.ErrForbidden
	}
	data.ClassID = classID

	if classID > 0 {
		var children []daycare.Child
		var resumes []daycare.DailyResume
		loadErr = load(ctx.Request().Context(),
			fetch(&children, func(ctx context.Context) ([]daycare.Child, error) {
				return st.api.ListChildren(ctx, apiclient.ChildQuery{ClassID: classID})
			}),
			fetch(&resumes, func(ctx context.Context) ([]daycare.DailyResume, error) {
				return st.api.ListDailyResumes(ctx, apiclient.ResumeQuery{Date: date, ClassID: classID})
			}),
		)
		if loadErr != nil {
			return loadErr
		}
		data.Lines = resumeLines(children, resumes)
	}

	p := page{Title: "nav.resumes", Data: data}
	if err != nil {
		return tp.renderForm(ctx, "resumes", p, err)
	}
	return tp.render(ctx, http.StatusOK, "resumes", p)
}

// resumeLines pairs each child with its resume, if any.
func resumeLines(children []daycare.Child, resumes []daycare.DailyResume) []resumeLine {
	byChild := make(map[int]daycare.DailyResume, len(resumes))
	for _, r := range resumes {
		byChild[r.ChildID] = r
	}
	lines := make([]resumeLine, 0, len(children))
	for _, c := range children {
		line := resumeLine{Child: c}
		if r, ok := byChild[c.ID]; ok {
			line.Resume = &r
		}
		lines = append(lines, line)
	}
	return lines
}

func (tp teacherPages) listResumes(ctx echo.Context) error {
	date := dateParam(ctx, "date")
	return tp.resumesPage(ctx, date, daycare.DailyResumeForm{Date: date}, nil)
}

func (tp teacherPages) createResume(ctx echo.Context) error {
	st := getState(ctx)

	var form daycare.DailyResumeForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to DailyResumeForm")
	}
	err := form.Validate(tp.deps.Validate)
	if err == nil {
		err = tp.checkOwnChild(ctx, form.ChildID)
	}
	if err == nil {
		_, err = st.api.CreateDailyResume(ctx.Request().Context(), form.DailyResume(st.auth.User().ID))
	}
	if err != nil {
		if err == echo.ErrForbidden {
			return err
		}
		return tp.resumesPage(ctx, form.Date, form, err)
	}
	return tp.redirect(ctx, "/teacher/resumes?date="+form.Date+"&class_id="+ctx.FormValue("class_id"), "flash.created")
}

// checkOwnChild fails with echo.ErrForbidden unless the child belongs to one of the teacher's classes.
func (tp teacherPages) checkOwnChild(ctx echo.Context, childID int) error {
	st := getState(ctx)
	var child *daycare.Child
	var classes []daycare.Class
	err := load(ctx.Request().Context(),
		fetch(&child, func(ctx context.Context) (*daycare.Child, error) { return st.api.GetChild(ctx, childID) }),
		fetch(&classes, func(ctx context.Context) ([]daycare.Class, error) { return ownClasses(ctx, st) }),
	)
	if err != nil {
		return err
	}
	if !child.ClassID.Valid || !containsInt(daycare.ClassIDs(classes), child.ClassID.Int) {
		return echo.ErrForbidden
	}
	return nil
}

// Menus & events

func (tp teacherPages) listMenus(ctx echo.Context) error {
	data, err := tp.weekMenus(ctx, false)
	if err != nil {
		return err
	}
	data.BasePath = "/teacher/menus"
	return tp.render(ctx, http.StatusOK, "menus", page{Title: "nav.menus", Data: data})
}

func (tp teacherPages) listEvents(ctx echo.Context) error {
	st := getState(ctx)
	teacherID := st.auth.User().ID
	data, err := tp.loadEvents(ctx.Request().Context(), st.api, func(classes []daycare.Class) []int {
		return daycare.ClassIDs(daycare.ClassesOf(classes, teacherID))
	})
	if err != nil {
		return err
	}
	return tp.render(ctx, http.StatusOK, "events", page{Title: "nav.events", Data: data})
}
