package user

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/shuleapp/shule/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excludedUsers ...User) error
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id int) (User, error)
		GetUserByEmail(email string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on User.Name or User.Email.
		FilterUsers(filter QueryFilter) ([]User, error)
		UpdateUser(usr User, isActive *bool) (User, error)
		DeleteUsersByID(ids ...int) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) checkEmailUniqueness(email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(email, exclUsers...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		ClassName: nu.ClassName,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if usr.Role != RoleStudent {
		usr.ClassName = ""
	}
	if err := usr.SetPIN(nu.PIN); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeEmail(usr)
	return usr, nil
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByID(id int) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) Filter(filter QueryFilter) ([]User, error) {
	return svc.repo.FilterUsers(filter)
}

// Candidates returns the public selection records for the login screen,
// scoped by role and, for students, by class.
func (svc *Service) Candidates(role Role, className string) ([]Candidate, error) {
	filter := QueryFilter{Role: role}
	if role == RoleStudent {
		filter.ClassName = core.CleanString(className)
	}
	users, err := svc.repo.FilterUsers(filter)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(users))
	for _, usr := range users {
		if !usr.IsActive {
			continue
		}
		c := Candidate{ID: usr.ID, Name: usr.Name}
		if usr.IsStudent() {
			c.Label = usr.ClassName
		} else {
			c.Label = usr.Role.String()
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (svc *Service) Update(id int, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		Name:      uu.Name,
		Email:     uu.Email,
		ClassName: uu.ClassName,
		UpdatedAt: time.Now().UTC(),
	}
	if uu.PIN != "" {
		if err := usr.SetPIN(uu.PIN); err != nil {
			return User{}, err
		}
	}
	return svc.repo.UpdateUser(usr, uu.IsActive)
}

// UpdateOwnProfile changes a user's name and/or PIN after re-checking the
// current PIN.
func (svc *Service) UpdateOwnProfile(usr User, up UpdateProfile) (User, error) {
	if err := usr.CheckPIN(up.CurrentPIN); err != nil {
		return User{}, core.NewValidationError(
			errors.New("invalid current PIN"),
			core.FieldError{Field: "currentPin", Error: "invalid current PIN"},
		)
	}

	uu := UpdateUser{Name: up.Name, PIN: up.PIN, ClassName: usr.ClassName}
	if uu.Name == "" {
		uu.Name = usr.Name
	}
	if err := uu.Validate(usr, svc); err != nil {
		return User{}, err
	}
	return svc.Update(usr.ID, uu)
}

func (svc *Service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	usr.UpdatedAt = usr.LastLogin
	return svc.repo.UpdateUser(usr, nil)
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteUsersByID(ids...)
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if usr.Email == "" || svc.mailSvc == nil {
		return
	}
	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Welcome to " + core.Conf.AppName,
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour %s account has been created. Sign in with your 4-digit PIN at %s.\n",
			usr.Name, core.Conf.AppName, core.Conf.FrontendBaseURL,
		),
	}
	svc.mailSvc.SendMessages(msg)
}
