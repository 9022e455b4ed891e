package user

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/garderie/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
)

// Statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	AllRoles = []string{RoleAdmin, RoleTeacher, RoleParent}

	Roles = []Role{
		{Name: "role.admin", Value: RoleAdmin},
		{Name: "role.teacher", Value: RoleTeacher},
		{Name: "role.parent", Value: RoleParent},
	}
)

// Role pairs a role value with the translation key of its label.
type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// IsValidRole reports whether role is one of AllRoles.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// HomePath returns the dashboard section of the given role, without locale prefix.
func HomePath(role string) string {
	switch role {
	case RoleAdmin:
		return "/admin"
	case RoleTeacher:
		return "/teacher"
	case RoleParent:
		return "/parent"
	default:
		return "/login"
	}
}

type User struct {
	ID        int         `json:"id"`
	Email     string      `json:"email"`
	Role      string      `json:"role"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Status    string      `json:"status"`
	Phone     null.String `json:"phone"`
	CreatedAt time.Time   `json:"created_at"` // UTC
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsParent() bool  { return u.Role == RoleParent }

func (u User) IsActive() bool {
	return u.Status == "" || u.Status == StatusActive
}

type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	FirstName       string `form:"first_name" json:"first_name" validate:"required,notblank"`
	LastName        string `form:"last_name" json:"last_name" validate:"required,notblank"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	Phone           string `form:"phone" json:"phone,omitempty" validate:"omitempty,max=20"`
	Role            string `form:"role" json:"role" validate:"required,oneof=admin teacher parent"`
	Password        string `form:"password" json:"password" validate:"required"`
	PasswordConfirm string `form:"password_confirm" json:"-" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Phone = core.CleanString(nu.Phone)
	return validate.Struct(nu)
}

type QueryFilter struct {
	Search string `query:"search"`
	Role   string `query:"role"`
	Status string `query:"status"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	if !IsValidRole(qf.Role) {
		qf.Role = ""
	}
}

// Filter applies the QueryFilter on users; Search does a case-insensitive match on the full name or email.
func Filter(users []User, qf QueryFilter) []User {
	search := strings.ToLower(qf.Search)
	res := make([]User, 0, len(users))
	for _, u := range users {
		if qf.Role != "" && u.Role != qf.Role {
			continue
		}
		if qf.Status != "" && u.Status != qf.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.FullName()), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		res = append(res, u)
	}
	return res
}
