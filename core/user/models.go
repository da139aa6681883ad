package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shuleapp/shule/core"
)

// Role is the closed set of account roles. It is fixed at account creation
// and never mutated client-side.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

var AllRoles = []Role{RoleStudent, RoleTeacher, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	ClassName string    `json:"className,omitempty"` // students only, e.g. "5A"
	IsActive  bool      `json:"is_active"`
	PINHash   []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
	LastLogin time.Time `json:"last_login"` // UTC
}

func (u *User) SetPIN(pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PINHash = hash
	return nil
}

func (u *User) CheckPIN(pin string) error {
	return bcrypt.CompareHashAndPassword(u.PINHash, []byte(pin))
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }

// Candidate is a lightweight selection record shown on the login screen
// before any authentication happens.
type Candidate struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label,omitempty"` // class for students, role otherwise
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Role      Role   `json:"role" validate:"required,oneof=student teacher admin"`
	PIN       string `json:"pin" validate:"required,len=4,digits"`
	ClassName string `json:"class_name" validate:"omitempty"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.ClassName = core.CleanString(nu.ClassName)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	if nu.Email != "" {
		return svc.checkEmailUniqueness(nu.Email)
	}
	return nil
}

// UpdateUser defines what information an admin may modify on an existing User.
type UpdateUser struct {
	Name      string `json:"name"`
	Email     string `json:"email" validate:"omitempty,email"`
	IsActive  *bool  `json:"is_active"`
	PIN       string `json:"pin" validate:"omitempty,len=4,digits"`
	ClassName string `json:"class_name"`
}

func (uu *UpdateUser) Validate(origUsr User, svc *Service) error {
	name := core.CleanString(uu.Name)
	if name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}

	email := core.CleanString(uu.Email, true /* lower */)
	if email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	if uu.Email != "" && uu.Email != origUsr.Email {
		return svc.checkEmailUniqueness(uu.Email, origUsr)
	}
	return nil
}

// UpdateProfile is the self-service profile change; it is gated on the
// account's current PIN.
type UpdateProfile struct {
	CurrentPIN string `json:"currentPin" validate:"required,len=4,digits"`
	Name       string `json:"name"`
	PIN        string `json:"pin" validate:"omitempty,len=4,digits"`
}

func (up *UpdateProfile) Validate() error {
	up.Name = core.CleanString(up.Name)
	return core.Validate.Struct(up)
}

type QueryFilter struct {
	Role      Role   `query:"role"`
	ClassName string `query:"class_name"`
	Search    string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Role == "" && qf.ClassName == "" && qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.ClassName = core.CleanString(qf.ClassName)
}
