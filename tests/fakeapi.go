package testutil

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/garderie/core/auth"
	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/core/user"
)

const tokenIssuer = "fakeapi"

// Request is a request received by the fake API.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
}

// table is an in-memory repository; it is safe for concurrent use.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[int]T
	pk    int
	setID func(*T, int)
}

func newTable[T any](setID func(*T, int)) *table[T] {
	return &table[T]{rows: make(map[int]T), setID: setID}
}

func (t *table[T]) all() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]int, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	res := make([]T, 0, len(ids))
	for _, id := range ids {
		res = append(res, t.rows[id])
	}
	return res
}

func (t *table[T]) get(id int) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) create(row T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pk++
	t.setID(&row, t.pk)
	t.rows[t.pk] = row
	return row
}

func (t *table[T]) update(id int, row T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return row, false
	}
	t.setID(&row, id)
	t.rows[id] = row
	return row, true
}

func (t *table[T]) delete(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

type account struct {
	user.User
	pwdHash []byte
}

type failure struct {
	status  int
	message string
}

// FakeAPI is an in-memory stand-in for the daycare REST API, served by httptest.
type FakeAPI struct {
	*httptest.Server

	Key []byte
	Now func() time.Time

	users        *table[account]
	classes      *table[daycare.Class]
	children     *table[daycare.Child]
	presences    *table[daycare.Presence]
	menus        *table[daycare.Menu]
	events       *table[daycare.Event]
	inscriptions *table[daycare.Inscription]
	resumes      *table[daycare.DailyResume]

	mu       sync.Mutex
	requests []Request
	failures map[string]failure // {"METHOD /path": failure}
}

// NewFakeAPI starts a fake API, closed at the end of the test.
func NewFakeAPI(t testing.TB) *FakeAPI {
	api := &FakeAPI{
		Key:          []byte("fake-api-signing-key"),
		Now:          time.Now,
		users:        newTable(func(a *account, id int) { a.ID = id }),
		classes:      newTable(func(c *daycare.Class, id int) { c.ID = id }),
		children:     newTable(func(c *daycare.Child, id int) { c.ID = id }),
		presences:    newTable(func(p *daycare.Presence, id int) { p.ID = id }),
		menus:        newTable(func(m *daycare.Menu, id int) { m.ID = id }),
		events:       newTable(func(e *daycare.Event, id int) { e.ID = id }),
		inscriptions: newTable(func(i *daycare.Inscription, id int) { i.ID = id }),
		resumes:      newTable(func(r *daycare.DailyResume, id int) { r.ID = id }),
		failures:     make(map[string]failure),
	}
	api.Server = httptest.NewServer(api.router())
	t.Cleanup(api.Close)
	return api
}

// BaseURL is the API root, as configured in api.baseURL.
func (api *FakeAPI) BaseURL() string {
	return api.URL + "/api"
}

// Fail makes every subsequent `method path` request answer status with message.
func (api *FakeAPI) Fail(method, path string, status int, message string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.failures[method+" "+path] = failure{status: status, message: message}
}

// Requests returns the requests received so far.
func (api *FakeAPI) Requests() []Request {
	api.mu.Lock()
	defer api.mu.Unlock()
	return append([]Request(nil), api.requests...)
}

// Seeding

// AddUser creates a user with the given password and returns it.
func (api *FakeAPI) AddUser(t testing.TB, usr user.User, password string) user.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("AddUser() failed: %v", err)
	}
	if usr.Status == "" {
		usr.Status = user.StatusActive
	}
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = api.Now().UTC()
	}
	return api.users.create(account{User: usr, pwdHash: hash}).User
}

// Token mints a valid token for usr.
func (api *FakeAPI) Token(t testing.TB, usr user.User) string {
	token, err := auth.SignToken(auth.UserClaims(usr, tokenIssuer, time.Hour), api.Key)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}

// ExpiredToken mints a token the API rejects.
func (api *FakeAPI) ExpiredToken(t testing.TB, usr user.User) string {
	token, err := auth.SignToken(auth.UserClaims(usr, tokenIssuer, -time.Minute), api.Key)
	if err != nil {
		t.Fatalf("ExpiredToken() failed: %v", err)
	}
	return token
}

func (api *FakeAPI) AddClass(c daycare.Class) daycare.Class {
	if c.TeacherIDs == nil {
		c.TeacherIDs = []int{}
	}
	return api.classes.create(c)
}

func (api *FakeAPI) AddChild(c daycare.Child) daycare.Child {
	return api.children.create(c)
}

func (api *FakeAPI) AddPresence(p daycare.Presence) daycare.Presence {
	return api.presences.create(p)
}

func (api *FakeAPI) AddMenu(m daycare.Menu) daycare.Menu {
	return api.menus.create(m)
}

func (api *FakeAPI) AddEvent(e daycare.Event) daycare.Event {
	return api.events.create(e)
}

func (api *FakeAPI) AddInscription(i daycare.Inscription) daycare.Inscription {
	if i.CreatedAt.IsZero() {
		i.CreatedAt = api.Now().UTC()
	}
	return api.inscriptions.create(i)
}

func (api *FakeAPI) AddDailyResume(r daycare.DailyResume) daycare.DailyResume {
	return api.resumes.create(r)
}

// Inspection

func (api *FakeAPI) Users() []user.User {
	accounts := api.users.all()
	users := make([]user.User, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, a.User)
	}
	return users
}

func (api *FakeAPI) Classes() []daycare.Class { return api.classes.all() }
func (api *FakeAPI) Children() []daycare.Child { return api.children.all() }
func (api *FakeAPI) Presences() []daycare.Presence { return api.presences.all() }
func (api *FakeAPI) Menus() []daycare.Menu { return api.menus.all() }
func (api *FakeAPI) Events() []daycare.Event { return api.events.all() }
func (api *FakeAPI) Inscriptions() []daycare.Inscription { return api.inscriptions.all() }
func (api *FakeAPI) DailyResumes() []daycare.DailyResume { return api.resumes.all() }

// Router

type apiError struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func errorResponse(ctx echo.Context, status int, msg string) error {
	return ctx.JSON(status, apiError{Message: msg})
}

func (api *FakeAPI) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(api.record)

	g := e.Group("/api")
	g.POST("/auth/login", api.login)
	g.POST("/inscriptions", api.createInscription)

	authd := g.Group("", api.authenticate)
	authd.GET("/auth/me", api.me)

	admin := authd.Group("", api.requireRole(user.RoleAdmin))
	staff := authd.Group("", api.requireRole(user.RoleAdmin, user.RoleTeacher))

	authd.GET("/users", api.listUsers)
	admin.POST("/users", api.createUser)
	admin.DELETE("/users/:id", api.deleteUser)

	authd.GET("/classes", api.listClasses)
	admin.POST("/classes", api.createClass)
	admin.PUT("/classes/:id", api.updateClass)
	admin.DELETE("/classes/:id", api.deleteClass)

	authd.GET("/children", api.listChildren)
	authd.GET("/children/:id", api.getChild)
	admin.POST("/children", api.createChild)
	admin.PUT("/children/:id", api.updateChild)
	admin.DELETE("/children/:id", api.deleteChild)

	authd.GET("/presences", api.listPresences)
	staff.POST("/presences", api.recordPresences)

	authd.GET("/menus", api.listMenus)
	admin.POST("/menus", api.createMenu)
	admin.PUT("/menus/:id", api.updateMenu)
	admin.DELETE("/menus/:id", api.deleteMenu)

	authd.GET("/events", api.listEvents)
	admin.POST("/events", api.createEvent)
	admin.DELETE("/events/:id", api.deleteEvent)

	admin.GET("/inscriptions", api.listInscriptions)
	admin.PATCH("/inscriptions/:id", api.setInscriptionStatus)

	authd.GET("/daily-resumes", api.listResumes)
	staff.POST("/daily-resumes", api.createResume)

	admin.GET("/dashboard/stats", api.stats)
	return e
}

func (api *FakeAPI) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req := ctx.Request()
		path := strings.TrimPrefix(req.URL.Path, "/api")

		api.mu.Lock()
		api.requests = append(api.requests, Request{
			Method:        req.Method,
			Path:          path,
			Query:         req.URL.RawQuery,
			Authorization: req.Header.Get("Authorization"),
		})
		f, fail := api.failures[req.Method+" "+path]
		api.mu.Unlock()

		if fail {
			return errorResponse(ctx, f.status, f.message)
		}
		return next(ctx)
	}
}

func (api *FakeAPI) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		header := ctx.Request().Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			return errorResponse(ctx, http.StatusUnauthorized, "missing or malformed jwt")
		}
		claims, err := auth.VerifyToken(token, api.Key)
		if err != nil {
			return errorResponse(ctx, http.StatusUnauthorized, "invalid or expired jwt")
		}
		id, _ := strconv.Atoi(claims.Subject)
		acc, ok := api.users.get(id)
		if !ok || !acc.IsActive() {
			return errorResponse(ctx, http.StatusUnauthorized, "invalid or expired jwt")
		}
		ctx.Set("user", acc.User)
		return next(ctx)
	}
}

func (api *FakeAPI) requireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr := ctx.Get("user").(user.User)
			for _, role := range roles {
				if usr.Role == role {
					return next(ctx)
				}
			}
			return errorResponse(ctx, http.StatusForbidden, "forbidden")
		}
	}
}

func currentUser(ctx echo.Context) user.User {
	return ctx.Get("user").(user.User)
}

func paramID(ctx echo.Context) int {
	id, _ := strconv.Atoi(ctx.Param("id"))
	return id
}

func queryInt(ctx echo.Context, name string) int {
	i, _ := strconv.Atoi(ctx.QueryParam(name))
	return i
}

func notFound(ctx echo.Context) error {
	return errorResponse(ctx, http.StatusNotFound, "not found")
}

// Auth

func (api *FakeAPI) login(ctx echo.Context) error {
	var req user.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	for _, acc := range api.users.all() {
		if acc.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword(acc.pwdHash, []byte(req.Password)) != nil {
			break
		}
		if !acc.IsActive() {
			return errorResponse(ctx, http.StatusForbidden, "account disabled")
		}
		token, err := auth.SignToken(auth.UserClaims(acc.User, tokenIssuer, time.Hour), api.Key)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, user.LoginResponse{Token: token, User: acc.User})
	}
	return errorResponse(ctx, http.StatusUnauthorized, "invalid credentials")
}

func (api *FakeAPI) me(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, currentUser(ctx))
}

// Users

func (api *FakeAPI) listUsers(ctx echo.Context) error {
	role := ctx.QueryParam("role")
	users := make([]user.User, 0)
	for _, u := range api.Users() {
		if role == "" || u.Role == role {
			users = append(users, u)
		}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *FakeAPI) createUser(ctx echo.Context) error {
	var nu user.NewUser
	if err := ctx.Bind(&nu); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}
	for _, u := range api.Users() {
		if u.Email == nu.Email {
			return ctx.JSON(http.StatusBadRequest, apiError{
				Message: "email already taken",
				Errors:  map[string]string{"email": "already taken"},
			})
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	acc := api.users.create(account{
		User: user.User{
			Email:     nu.Email,
			Role:      nu.Role,
			FirstName: nu.FirstName,
			LastName:  nu.LastName,
			Status:    user.StatusActive,
			CreatedAt: api.Now().UTC(),
		},
		pwdHash: hash,
	})
	return ctx.JSON(http.StatusCreated, acc.User)
}

func (api *FakeAPI) deleteUser(ctx echo.Context) error {
	if !api.users.delete(paramID(ctx)) {
		return notFound(ctx)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Classes

func (api *FakeAPI) listClasses(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.classes.all())
}

func (api *FakeAPI) createClass(ctx echo.Context) error {
	var c daycare.Class
	if err := ctx.Bind(&c); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}
	return ctx.JSON(http.StatusCreated, api.AddClass(c))
}

func (api *FakeAPI) updateClass(ctx echo.Context) error {
	var c daycare.Class
	if err := ctx.Bind(&c); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}
	res, ok := api.classes.update(paramID(ctx), c)
	if !ok {
		return notFound(ctx)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *FakeAPI) deleteClass(ctx echo.Context) error {
	if !api.classes.delete(paramID(ctx)) {
		return notFound(ctx)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Children

func (api *FakeAPI) listChildren(ctx echo.Context) error {
	classID := queryInt(ctx, "class_id")
	children := make([]daycare.Child, 0)
	for _, c := range api.children.all() {
		if classID == 0 || (c.ClassID.Valid && c.ClassID.Int == classID) {
			children = append(children, c)
		}
	}
	return ctx.JSON(http.StatusOK, children)
}

func (api *FakeAPI) getChild(ctx echo.Context) error {
	c, ok := api.children.get(paramID(ctx))
	if !ok {
		return notFound(ctx)
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *FakeAPI) createChild(ctx echo.Context) error {
	var c daycare.Child
	if err := ctx.Bind(&c); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}
	return ctx.JSON(http.StatusCreated, api.children.create(c))
}

func (api *FakeAPI) updateChild(ctx echo.Context) error {
	var c daycare.Child
	if err := ctx.Bind(&c); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}
	res, ok := api.children.update(paramID(ctx), c)
	if !ok {
		return notFound(ctx)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *FakeAPI) deleteChild(ctx echo.Context) error {
	if !api.children.delete(paramID(ctx)) {
		return notFound(ctx)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Presences

func (api *FakeAPI) listPresences(ctx echo.Context) error {
	date, from, to := ctx.QueryParam("date"), ctx.QueryParam("from"), ctx.QueryParam("to")
	childID, classID := queryInt(ctx, "child_id"), queryInt(ctx, "class_id")

	inClass := make(map[int]bool)
	if classID > 0 {
		for _, c := range api.children.all() {
			if c.ClassID.Valid && c.ClassID.Int == classID {
				inClass[c.ID] = true
			}
		}
	}

	presences := make([]daycare.Presence, 0)
	for _, p := range api.presences.all() {
		switch {
		case date != "" && p.Date != date,
			from != "" && p.Date < from,
			to != "" && p.Date > to,
			childID > 0 && p.ChildID != childID,
			classID > 0 && !inClass[p.ChildID]:
			continue
		}
		presences = append(presences, p)
	}
	return ctx.JSON(http.StatusOK, presences)
}

// recordPresences upserts the sheet on (child, date).
func (api *FakeAPI) recordPresences(ctx echo.Context) error {
	var sheet []daycare.NewPresence
	if err := ctx.Bind(&sheet); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}
	usr := currentUser(ctx)
	existing := api.presences.all()

	res := make([]daycare.Presence, 0, len(sheet))
	for _, np := range sheet {
		p := daycare.Presence{ChildID: np.ChildID, Date: np.Date, Status: np.Status}
		p.RecordedBy.SetValid(usr.ID)
		if np.Note != "" {
			p.Note.SetValid(np.Note)
		}
		id := 0
		for _, e := range existing {
			if e.ChildID == np.ChildID && e.Date == np.Date {
				id = e.ID
				break
			}
		}
		if id > 0 {
			p, _ = api.presences.update(id, p)
		} else {
			p = api.presences.create(p)
		}
		res = append(res, p)
	}
	return ctx.JSON(http.StatusCreated, res)
}

// Menus

func (api *FakeAPI) listMenus(ctx echo.Context) error {
	from, to, status := ctx.QueryParam("from"), ctx.QueryParam("to"), ctx.QueryParam("status")
	menus := make([]daycare.Menu, 0)
	for _, m := range api.menus.all() {
		switch {
		case from != "" && m.Date < from,
			to != "" && m.Date > to,
			status != "" && m.Status != status:
			continue
		}
		menus = append(menus, m)
	}
	return ctx.JSON(http.StatusOK, menus)
}

func (api *FakeAPI) createMenu(ctx echo.Context) error {
	var m daycare.Menu
	if err := ctx.Bind(&m); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}
	return ctx.JSON(http.StatusCreated, api.menus.create(m))
}

func (api *FakeAPI) updateMenu(ctx echo.Context) error {
	var m daycare.Menu
	if err := ctx.Bind(&m); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}
	res, ok := api.menus.update(paramID(ctx), m)
	if !ok {
		return notFound(ctx)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *FakeAPI) deleteMenu(ctx echo.Context) error {
	if !api.menus.delete(paramID(ctx)) {
		return notFound(ctx)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Events

func (api *FakeAPI) listEvents(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.events.all())
}

func (api *FakeAPI) createEvent(ctx echo.Context) error {
	var ev daycare.Event
	if err := ctx.Bind(&ev); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}
	return ctx.JSON(http.StatusCreated, api.events.create(ev))
}

func (api *FakeAPI) deleteEvent(ctx echo.Context) error {
	if !api.events.delete(paramID(ctx)) {
		return notFound(ctx)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Inscriptions

func (api *FakeAPI) listInscriptions(ctx echo.Context) error {
	status := ctx.QueryParam("status")
	inscriptions := make([]daycare.Inscription, 0)
	for _, i := range api.inscriptions.all() {
		if status == "" || i.Status == status {
			inscriptions = append(inscriptions, i)
		}
	}
	return ctx.JSON(http.StatusOK, inscriptions)
}

func (api *FakeAPI) createInscription(ctx echo.Context) error {
	var i daycare.Inscription
	if err := ctx.Bind(&i); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}
	i.Status = daycare.InscriptionApplication
	i.CreatedAt = time.Time{}
	return ctx.JSON(http.StatusCreated, api.AddInscription(i))
}

func (api *FakeAPI) setInscriptionStatus(ctx echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := ctx.Bind(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}
	i, ok := api.inscriptions.get(paramID(ctx))
	if !ok {
		return notFound(ctx)
	}
	i, err := i.Transition(body.Status)
	if err != nil {
		return errorResponse(ctx, http.StatusConflict, err.Error())
	}
	i, _ = api.inscriptions.update(i.ID, i)
	return ctx.JSON(http.StatusOK, i)
}

// Daily resumes

func (api *FakeAPI) listResumes(ctx echo.Context) error {
	date := ctx.QueryParam("date")
	childID, classID := queryInt(ctx, "child_id"), queryInt(ctx, "class_id")

	classOf := make(map[int]int)
	for _, c := range api.children.all() {
		classOf[c.ID] = c.ClassID.Int
	}

	resumes := make([]daycare.DailyResume, 0)
	for _, r := range api.resumes.all() {
		switch {
		case date != "" && r.Date != date,
			childID > 0 && r.ChildID != childID,
			classID > 0 && classOf[r.ChildID] != classID:
			continue
		}
		resumes = append(resumes, r)
	}
	return ctx.JSON(http.StatusOK, resumes)
}

func (api *FakeAPI) createResume(ctx echo.Context) error {
	var r daycare.DailyResume
	if err := ctx.Bind(&r); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}
	if _, ok := api.children.get(r.ChildID); !ok {
		return errorResponse(ctx, http.StatusBadRequest, "unknown child")
	}
	return ctx.JSON(http.StatusCreated, api.resumes.create(r))
}

// Dashboard

func (api *FakeAPI) stats(ctx echo.Context) error {
	today := api.Now().Format("2006-01-02")
	stats := daycare.DashboardStats{
		Children: len(api.children.all()),
		Classes:  len(api.classes.all()),
	}
	for _, u := range api.Users() {
		if u.IsTeacher() {
			stats.Teachers++
		}
	}
	for _, i := range api.inscriptions.all() {
		if i.IsPending() {
			stats.PendingInscriptions++
		}
	}
	for _, p := range api.presences.all() {
		if p.Date != today {
			continue
		}
		if p.Status == daycare.PresencePresent {
			stats.PresentToday++
		} else {
			stats.AbsentToday++
		}
	}
	return ctx.JSON(http.StatusOK, stats)
}
