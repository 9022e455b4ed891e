package daycare

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

// Presence statuses
const (
	PresencePresent   = "present"
	PresenceAbsent    = "absent"
	PresenceJustified = "justified"
)

// Menu statuses
const (
	MenuDraft     = "draft"
	MenuPublished = "published"
)

// Inscription statuses
const (
	InscriptionApplication = "application"
	InscriptionInReview    = "in_review"
	InscriptionActive      = "active"
	InscriptionRejected    = "rejected"
)

var (
	PresenceStatuses    = []string{PresencePresent, PresenceAbsent, PresenceJustified}
	InscriptionStatuses = []string{InscriptionApplication, InscriptionInReview, InscriptionActive, InscriptionRejected}
)

type Guardian struct {
	Name     string      `json:"name"`
	Relation string      `json:"relation"`
	Phone    string      `json:"phone"`
	Email    null.String `json:"email"`
	UserID   null.Int    `json:"user_id"`
}

type Child struct {
	ID        int         `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	BirthDate string      `json:"birth_date"` // YYYY-MM-DD
	ClassID   null.Int    `json:"class_id"`
	Allergies null.String `json:"allergies"`
	Guardians []Guardian  `json:"guardians"`
	Presences []Presence  `json:"presences,omitempty"`
}

func (c Child) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// AgeInMonths returns the child's age at the given date, or -1 when the birth date is unknown.
func (c Child) AgeInMonths(at time.Time) int {
	birth, err := ParseDate(c.BirthDate)
	if err != nil {
		return -1
	}
	months := (at.Year()-birth.Year())*12 + int(at.Month()) - int(birth.Month())
	if at.Day() < birth.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// HasGuardian reports whether the user with the given ID is one of the child's guardians.
func (c Child) HasGuardian(userID int) bool {
	for _, g := range c.Guardians {
		if g.UserID.Valid && g.UserID.Int == userID {
			return true
		}
	}
	return false
}

type Class struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Capacity   int    `json:"capacity"`
	MinAge     int    `json:"min_age_months"`
	MaxAge     int    `json:"max_age_months"`
	Active     bool   `json:"active"`
	TeacherIDs []int  `json:"teacher_ids"`
}

// HasTeacher reports whether the teacher with the given ID is assigned to the class.
func (c Class) HasTeacher(teacherID int) bool {
	for _, id := range c.TeacherIDs {
		if id == teacherID {
			return true
		}
	}
	return false
}

type Presence struct {
	ID         int         `json:"id"`
	ChildID    int         `json:"child_id"`
	Date       string      `json:"date"` // YYYY-MM-DD
	Status     string      `json:"status"`
	RecordedBy null.Int    `json:"recorded_by"`
	Note       null.String `json:"note"`
}

type Menu struct {
	ID        int      `json:"id"`
	Date      string   `json:"date"` // YYYY-MM-DD
	Breakfast string   `json:"breakfast"`
	Lunch     string   `json:"lunch"`
	Snack     string   `json:"snack"`
	Allergens []string `json:"allergens"`
	Status    string   `json:"status"`
}

func (m Menu) IsPublished() bool {
	return m.Status == MenuPublished
}

type Event struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	ClassID     null.Int  `json:"class_id"` // null means every class
}

// IsVisibleTo reports whether the event concerns any of the given classes.
func (e Event) IsVisibleTo(classIDs ...int) bool {
	if !e.ClassID.Valid {
		return true
	}
	for _, id := range classIDs {
		if id == e.ClassID.Int {
			return true
		}
	}
	return false
}

type Inscription struct {
	ID             int         `json:"id"`
	ChildFirstName string      `json:"child_first_name"`
	ChildLastName  string      `json:"child_last_name"`
	ChildBirthDate string      `json:"child_birth_date"`
	GuardianName   string      `json:"guardian_name"`
	GuardianEmail  string      `json:"guardian_email"`
	GuardianPhone  string      `json:"guardian_phone"`
	Address        null.String `json:"address"`
	Notes          null.String `json:"notes"`
	Status         string      `json:"status"`
	Locale         string      `json:"locale"` // the guardian's, for the notification emails
	CreatedAt      time.Time   `json:"created_at"`
}

func (i Inscription) ChildName() string {
	return strings.TrimSpace(i.ChildFirstName + " " + i.ChildLastName)
}

type DailyResume struct {
	ID            int         `json:"id"`
	ChildID       int         `json:"child_id"`
	Date          string      `json:"date"` // YYYY-MM-DD
	Appetite      string      `json:"appetite"`
	Mood          string      `json:"mood"`
	Nap           string      `json:"nap"`
	Participation string      `json:"participation"`
	Comment       null.String `json:"comment"`
	TeacherID     null.Int    `json:"teacher_id"`
}

type DashboardStats struct {
	Children            int `json:"children"`
	Classes             int `json:"classes"`
	Teachers            int `json:"teachers"`
	PendingInscriptions int `json:"pending_inscriptions"`
	PresentToday        int `json:"present_today"`
	AbsentToday         int `json:"absent_today"`
}

// AttendanceRate returns the share of present children among today's records, in percent.
func (s DashboardStats) AttendanceRate() int {
	total := s.PresentToday + s.AbsentToday
	if total == 0 {
		return 0
	}
	return s.PresentToday * 100 / total
}
