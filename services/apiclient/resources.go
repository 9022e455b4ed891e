package apiclient

import (
	"context"
	"strconv"

	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/core/user"
)

// Auth

func (c *Client) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	resp := new(user.LoginResponse)
	if err := c.post(ctx, "/auth/login", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Me(ctx context.Context) (*user.User, error) {
	usr := new(user.User)
	if err := c.get(ctx, "/auth/me", nil, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

// Users

func (c *Client) ListUsers(ctx context.Context, role string) ([]user.User, error) {
	var users []user.User
	err := c.get(ctx, "/users", params("role", role), &users)
	return users, err
}

func (c *Client) CreateUser(ctx context.Context, nu user.NewUser) (*user.User, error) {
	usr := new(user.User)
	if err := c.post(ctx, "/users", nu, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.delete(ctx, "/users/"+strconv.Itoa(id))
}

// Classes

func (c *Client) ListClasses(ctx context.Context) ([]daycare.Class, error) {
	var classes []daycare.Class
	err := c.get(ctx, "/classes", nil, &classes)
	return classes, err
}

func (c *Client) CreateClass(ctx context.Context, cls daycare.Class) (*daycare.Class, error) {
	res := new(daycare.Class)
	if err := c.post(ctx, "/classes", cls, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) UpdateClass(ctx context.Context, id int, cls daycare.Class) (*daycare.Class, error) {
	res := new(daycare.Class)
	if err := c.put(ctx, "/classes/"+strconv.Itoa(id), cls, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) DeleteClass(ctx context.Context, id int) error {
	return c.delete(ctx, "/classes/"+strconv.Itoa(id))
}

// Children

type ChildQuery struct {
	ClassID int
}

func (q ChildQuery) params() map[string]string {
	return params("class_id", itoa(q.ClassID))
}

func (c *Client) ListChildren(ctx context.Context, q ChildQuery) ([]daycare.Child, error) {
	var children []daycare.Child
	err := c.get(ctx, "/children", q.params(), &children)
	return children, err
}

func (c *Client) GetChild(ctx context.Context, id int) (*daycare.Child, error) {
	child := new(daycare.Child)
	if err := c.get(ctx, "/children/"+strconv.Itoa(id), nil, child); err != nil {
		return nil, err
	}
	return child, nil
}

func (c *Client) CreateChild(ctx context.Context, child daycare.Child) (*daycare.Child, error) {
	res := new(daycare.Child)
	if err := c.post(ctx, "/children", child, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) UpdateChild(ctx context.Context, id int, child daycare.Child) (*daycare.Child, error) {
	res := new(daycare.Child)
	if err := c.put(ctx, "/children/"+strconv.Itoa(id), child, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) DeleteChild(ctx context.Context, id int) error {
	return c.delete(ctx, "/children/"+strconv.Itoa(id))
}

// Presences

type PresenceQuery struct {
	Date    string // YYYY-MM-DD
	From    string
	To      string
	ClassID int
	ChildID int
}

func (q PresenceQuery) params() map[string]string {
	return params(
		"date", q.Date, "from", q.From, "to", q.To,
		"class_id", itoa(q.ClassID), "child_id", itoa(q.ChildID),
	)
}

func (c *Client) ListPresences(ctx context.Context, q PresenceQuery) ([]daycare.Presence, error) {
	var presences []daycare.Presence
	err := c.get(ctx, "/presences", q.params(), &presences)
	return presences, err
}

// RecordPresences records a presence sheet; the API upserts on (child, date).
func (c *Client) RecordPresences(ctx context.Context, sheet []daycare.NewPresence) ([]daycare.Presence, error) {
	var presences []daycare.Presence
	err := c.post(ctx, "/presences", sheet, &presences)
	return presences, err
}

// Menus

type MenuQuery struct {
	From   string
	To     string
	Status string
}

func (c *Client) ListMenus(ctx context.Context, q MenuQuery) ([]daycare.Menu, error) {
	var menus []daycare.Menu
	err := c.get(ctx, "/menus", params("from", q.From, "to", q.To, "status", q.Status), &menus)
	return menus, err
}

func (c *Client) CreateMenu(ctx context.Context, m daycare.Menu) (*daycare.Menu, error) {
	res := new(daycare.Menu)
	if err := c.post(ctx, "/menus", m, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) UpdateMenu(ctx context.Context, id int, m daycare.Menu) (*daycare.Menu, error) {
	res := new(daycare.Menu)
	if err := c.put(ctx, "/menus/"+strconv.Itoa(id), m, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) DeleteMenu(ctx context.Context, id int) error {
	return c.delete(ctx, "/menus/"+strconv.Itoa(id))
}

// Events

func (c *Client) ListEvents(ctx context.Context) ([]daycare.Event, error) {
	var events []daycare.Event
	err := c.get(ctx, "/events", nil, &events)
	return events, err
}

func (c *Client) CreateEvent(ctx context.Context, ev daycare.Event) (*daycare.Event, error) {
	res := new(daycare.Event)
	if err := c.post(ctx, "/events", ev, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id int) error {
	return c.delete(ctx, "/events/"+strconv.Itoa(id))
}

// Inscriptions

func (c *Client) ListInscriptions(ctx context.Context, status string) ([]daycare.Inscription, error) {
	var inscriptions []daycare.Inscription
	err := c.get(ctx, "/inscriptions", params("status", status), &inscriptions)
	return inscriptions, err
}

func (c *Client) CreateInscription(ctx context.Context, i daycare.Inscription) (*daycare.Inscription, error) {
	res := new(daycare.Inscription)
	if err := c.post(ctx, "/inscriptions", i, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) SetInscriptionStatus(ctx context.Context, id int, status string) (*daycare.Inscription, error) {
	res := new(daycare.Inscription)
	body := map[string]string{"status": status}
	if err := c.patch(ctx, "/inscriptions/"+strconv.Itoa(id), body, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Daily resumes

type ResumeQuery struct {
	Date    string
	ChildID int
	ClassID int
}

func (c *Client) ListDailyResumes(ctx context.Context, q ResumeQuery) ([]daycare.DailyResume, error) {
	var resumes []daycare.DailyResume
	err := c.get(ctx, "/daily-resumes", params("date", q.Date, "child_id", itoa(q.ChildID), "class_id", itoa(q.ClassID)), &resumes)
	return resumes, err
}

func (c *Client) CreateDailyResume(ctx context.Context, r daycare.DailyResume) (*daycare.DailyResume, error) {
	res := new(daycare.DailyResume)
	if err := c.post(ctx, "/daily-resumes", r, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Dashboard

func (c *Client) DashboardStats(ctx context.Context) (*daycare.DashboardStats, error) {
	stats := new(daycare.DashboardStats)
	if err := c.get(ctx, "/dashboard/stats", nil, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// params builds query params from key/value pairs, skipping empty values.
func params(kv ...string) map[string]string {
	var q map[string]string
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		if q == nil {
			q = make(map[string]string)
		}
		q[kv[i]] = kv[i+1]
	}
	return q
}

func itoa(i int) string {
	if i <= 0 {
		return ""
	}
	return strconv.Itoa(i)
}
