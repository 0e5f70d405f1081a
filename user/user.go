package user

import (
	"net/mail"
	"strings"

	"moviehub/errs"
)

var (
	ErrUserNotFound       = errs.Errorf(errs.ENOTFOUND, "user not found")
	ErrInvalidName        = errs.Errorf(errs.EINVALID, "user: name is required")
	ErrInvalidEmail       = errs.Errorf(errs.EINVALID, "user: invalid email")
	ErrInvalidPassword    = errs.Errorf(errs.EINVALID, "user: password is required")
	ErrEmailAlreadyExists = errs.Errorf(errs.ECONFLICT, "user: email already exists")
)

type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"-"`
	PasswordHash string `json:"-"`
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrInvalidName
	}

	if err := validateEmail(u.Email); err != nil {
		return err
	}

	if strings.TrimSpace(u.Password) == "" {
		return ErrInvalidPassword
	}

	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}
