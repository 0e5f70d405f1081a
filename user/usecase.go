package user

import (
	"context"
	"strings"
)

type Service interface {
	AddUser(ctx context.Context, u User) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	UpdateUser(ctx context.Context, id int64, u User) (User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type Repository interface {
	CreateUser(ctx context.Context, u User) (User, error)
	AllUsers(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	UpdateUser(ctx context.Context, u User) (User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashed, plain string) error
}

type Usecase struct {
	r      Repository
	hasher PasswordHasher
}

func NewUsecase(r Repository, h PasswordHasher) *Usecase {
	return &Usecase{
		r:      r,
		hasher: h,
	}
}

func (uc *Usecase) AddUser(ctx context.Context, u User) (User, error) {
	u = normalize(u)
	if err := u.Validate(); err != nil {
		return User{}, err
	}
	if err := uc.hashPassword(&u); err != nil {
		return User{}, err
	}
	u.ID = 0
	return uc.r.CreateUser(ctx, u)
}

func (uc *Usecase) ListUsers(ctx context.Context) ([]User, error) {
	return uc.r.AllUsers(ctx)
}

func (uc *Usecase) GetUser(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, ErrUserNotFound
	}
	return uc.r.GetByID(ctx, id)
}

// UpdateUser replaces name, email and password of an existing user.
func (uc *Usecase) UpdateUser(ctx context.Context, id int64, u User) (User, error) {
	if id <= 0 {
		return User{}, ErrUserNotFound
	}
	u = normalize(u)
	if err := u.Validate(); err != nil {
		return User{}, err
	}
	if err := uc.hashPassword(&u); err != nil {
		return User{}, err
	}
	u.ID = id
	return uc.r.UpdateUser(ctx, u)
}

func (uc *Usecase) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrUserNotFound
	}
	return uc.r.DeleteUser(ctx, id)
}

func (uc *Usecase) hashPassword(u *User) error {
	hashed, err := uc.hasher.Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = ""
	u.PasswordHash = hashed
	return nil
}

func normalize(u User) User {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return u
}
