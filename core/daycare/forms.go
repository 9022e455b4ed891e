package daycare

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/garderie/core"
)

// ChildForm is the admin form creating or editing a child.
type ChildForm struct {
	FirstName        string `form:"first_name" validate:"required,notblank"`
	LastName         string `form:"last_name" validate:"required,notblank"`
	BirthDate        string `form:"birth_date" validate:"required,isodate"`
	ClassID          int    `form:"class_id" validate:"gte=0"`
	Allergies        string `form:"allergies" validate:"max=500"`
	GuardianName     string `form:"guardian_name" validate:"required,notblank"`
	GuardianRelation string `form:"guardian_relation" validate:"max=50"`
	GuardianPhone    string `form:"guardian_phone" validate:"required,max=20"`
	GuardianEmail    string `form:"guardian_email" validate:"omitempty,email"`
	GuardianUserID   int    `form:"guardian_user_id" validate:"gte=0"`
}

func (f *ChildForm) Validate(validate *validator.Validate) error {
	f.FirstName = core.CleanString(f.FirstName)
	f.LastName = core.CleanString(f.LastName)
	f.BirthDate = core.CleanString(f.BirthDate)
	f.Allergies = core.CleanString(f.Allergies)
	f.GuardianName = core.CleanString(f.GuardianName)
	f.GuardianRelation = core.CleanString(f.GuardianRelation)
	f.GuardianPhone = core.CleanString(f.GuardianPhone)
	f.GuardianEmail = core.CleanString(f.GuardianEmail, true /* lower */)
	return validate.Struct(f)
}

func (f ChildForm) Child() Child {
	return Child{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		BirthDate: f.BirthDate,
		ClassID:   nullInt(f.ClassID),
		Allergies: nullString(f.Allergies),
		Guardians: []Guardian{{
			Name:     f.GuardianName,
			Relation: f.GuardianRelation,
			Phone:    f.GuardianPhone,
			Email:    nullString(f.GuardianEmail),
			UserID:   nullInt(f.GuardianUserID),
		}},
	}
}

// ChildFormFrom pre-fills the form with an existing child.
func ChildFormFrom(c Child) ChildForm {
	f := ChildForm{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		BirthDate: c.BirthDate,
		ClassID:   c.ClassID.Int,
		Allergies: c.Allergies.String,
	}
	if len(c.Guardians) > 0 {
		g := c.Guardians[0]
		f.GuardianName = g.Name
		f.GuardianRelation = g.Relation
		f.GuardianPhone = g.Phone
		f.GuardianEmail = g.Email.String
		f.GuardianUserID = g.UserID.Int
	}
	return f
}

type ClassForm struct {
	Name       string `form:"name" validate:"required,notblank,max=100"`
	Capacity   int    `form:"capacity" validate:"gte=1"`
	MinAge     int    `form:"min_age_months" validate:"gte=0"`
	MaxAge     int    `form:"max_age_months" validate:"gtefield=MinAge"`
	Active     bool   `form:"active"`
	TeacherIDs []int  `form:"teacher_ids"`
}

func (f *ClassForm) Validate(validate *validator.Validate) error {
	f.Name = core.CleanString(f.Name)
	return validate.Struct(f)
}

func (f ClassForm) Class() Class {
	ids := f.TeacherIDs
	if ids == nil {
		ids = []int{}
	}
	return Class{
		Name:       f.Name,
		Capacity:   f.Capacity,
		MinAge:     f.MinAge,
		MaxAge:     f.MaxAge,
		Active:     f.Active,
		TeacherIDs: ids,
	}
}

type MenuForm struct {
	Date      string `form:"date" validate:"required,isodate"`
	Breakfast string `form:"breakfast" validate:"max=200"`
	Lunch     string `form:"lunch" validate:"required,notblank,max=200"`
	Snack     string `form:"snack" validate:"max=200"`
	Allergens string `form:"allergens" validate:"max=200"` // comma separated
	Publish   bool   `form:"publish"`
}

func (f *MenuForm) Validate(validate *validator.Validate) error {
	f.Date = core.CleanString(f.Date)
	f.Breakfast = core.CleanString(f.Breakfast)
	f.Lunch = core.CleanString(f.Lunch)
	f.Snack = core.CleanString(f.Snack)
	return validate.Struct(f)
}

func (f MenuForm) Menu() Menu {
	status := MenuDraft
	if f.Publish {
		status = MenuPublished
	}
	return Menu{
		Date:      f.Date,
		Breakfast: f.Breakfast,
		Lunch:     f.Lunch,
		Snack:     f.Snack,
		Allergens: SplitList(f.Allergens),
		Status:    status,
	}
}

// EventForm describes an event taking place on one day.
type EventForm struct {
	Title       string `form:"title" validate:"required,notblank,max=150"`
	Description string `form:"description" validate:"max=2000"`
	Date        string `form:"date" validate:"required,isodate"`
	StartTime   string `form:"start_time" validate:"required,clock"`
	EndTime     string `form:"end_time" validate:"required,clock"`
	ClassID     int    `form:"class_id" validate:"gte=0"`
}

func (f *EventForm) Validate(validate *validator.Validate) error {
	f.Title = core.CleanString(f.Title)
	f.Description = core.CleanString(f.Description)
	f.Date = core.CleanString(f.Date)
	f.StartTime = core.CleanString(f.StartTime)
	f.EndTime = core.CleanString(f.EndTime)
	return validate.Struct(f)
}

// Event converts the form in the given location; it must have been validated first.
func (f EventForm) Event(loc *time.Location) Event {
	day, _ := time.ParseInLocation(core.DateLayout, f.Date, loc)
	return Event{
		Title:       f.Title,
		Description: f.Description,
		StartsAt:    atClock(day, f.StartTime).UTC(),
		EndsAt:      atClock(day, f.EndTime).UTC(),
		ClassID:     nullInt(f.ClassID),
	}
}

// InscriptionForm is the public enrollment application.
type InscriptionForm struct {
	ChildFirstName string `form:"child_first_name" validate:"required,notblank"`
	ChildLastName  string `form:"child_last_name" validate:"required,notblank"`
	ChildBirthDate string `form:"child_birth_date" validate:"required,isodate"`
	GuardianName   string `form:"guardian_name" validate:"required,notblank"`
	GuardianEmail  string `form:"guardian_email" validate:"required,email"`
	GuardianPhone  string `form:"guardian_phone" validate:"required,max=20"`
	Address        string `form:"address" validate:"max=300"`
	Notes          string `form:"notes" validate:"max=2000"`
}

func (f *InscriptionForm) Validate(validate *validator.Validate) error {
	f.ChildFirstName = core.CleanString(f.ChildFirstName)
	f.ChildLastName = core.CleanString(f.ChildLastName)
	f.ChildBirthDate = core.CleanString(f.ChildBirthDate)
	f.GuardianName = core.CleanString(f.GuardianName)
	f.GuardianEmail = core.CleanString(f.GuardianEmail, true /* lower */)
	f.GuardianPhone = core.CleanString(f.GuardianPhone)
	f.Address = core.CleanString(f.Address)
	f.Notes = core.CleanString(f.Notes)
	return validate.Struct(f)
}

// Inscription builds the application, filed in the guardian's locale.
func (f InscriptionForm) Inscription(locale string) Inscription {
	return Inscription{
		ChildFirstName: f.ChildFirstName,
		ChildLastName:  f.ChildLastName,
		ChildBirthDate: f.ChildBirthDate,
		GuardianName:   f.GuardianName,
		GuardianEmail:  f.GuardianEmail,
		GuardianPhone:  f.GuardianPhone,
		Address:        nullString(f.Address),
		Notes:          nullString(f.Notes),
		Status:         InscriptionApplication,
		Locale:         locale,
	}
}

// NewPresence is one line of the presence sheet.
type NewPresence struct {
	ChildID int    `json:"child_id" validate:"gt=0"`
	Date    string `json:"date" validate:"required,isodate"`
	Status  string `json:"status" validate:"required,oneof=present absent justified"`
	Note    string `json:"note,omitempty" validate:"max=300"`
}

type DailyResumeForm struct {
	ChildID       int    `form:"child_id" validate:"gt=0"`
	Date          string `form:"date" validate:"required,isodate"`
	Appetite      string `form:"appetite" validate:"required,oneof=good average poor"`
	Mood          string `form:"mood" validate:"required,oneof=happy calm tired upset"`
	Nap           string `form:"nap" validate:"required,oneof=none short long"`
	Participation string `form:"participation" validate:"required,oneof=active moderate passive"`
	Comment       string `form:"comment" validate:"max=1000"`
}

func (f *DailyResumeForm) Validate(validate *validator.Validate) error {
	f.Date = core.CleanString(f.Date)
	f.Comment = core.CleanString(f.Comment)
	return validate.Struct(f)
}

func (f DailyResumeForm) DailyResume(teacherID int) DailyResume {
	return DailyResume{
		ChildID:       f.ChildID,
		Date:          f.Date,
		Appetite:      f.Appetite,
		Mood:          f.Mood,
		Nap:           f.Nap,
		Participation: f.Participation,
		Comment:       nullString(f.Comment),
		TeacherID:     nullInt(teacherID),
	}
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(core.DateLayout, s)
}

// SplitList splits a comma separated list, dropping blank items.
func SplitList(s string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		if item = core.CleanString(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func atClock(day time.Time, clock string) time.Time {
	c, _ := time.Parse(clockLayout, clock)
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, day.Location())
}

func nullInt(i int) null.Int {
	return null.NewInt(i, i > 0)
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}
