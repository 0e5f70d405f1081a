// nolint: funlen
package user_test

import (
	"context"
	"errors"
	"testing"

	"moviehub/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock User Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserRepository) AllUsers(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hashed, plain string) error {
	args := m.Called(hashed, plain)
	return args.Error(0)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		user user.User
		err  error
	}{
		{name: "valid", user: user.User{Name: "Alice", Email: "alice@example.com", Password: "pw"}, err: nil},
		{name: "blank name", user: user.User{Name: " ", Email: "alice@example.com", Password: "pw"}, err: user.ErrInvalidName},
		{name: "missing email", user: user.User{Name: "Alice", Password: "pw"}, err: user.ErrInvalidEmail},
		{name: "malformed email", user: user.User{Name: "Alice", Email: "alice", Password: "pw"}, err: user.ErrInvalidEmail},
		{name: "display name form", user: user.User{Name: "Alice", Email: "Alice <alice@example.com>", Password: "pw"}, err: user.ErrInvalidEmail},
		{name: "missing password", user: user.User{Name: "Alice", Email: "alice@example.com"}, err: user.ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.err, tt.user.Validate())
		})
	}
}

// TEST AddUser
func TestAddUser(t *testing.T) {
	t.Run("should hash password and store user", func(t *testing.T) {
		r, h := new(MockUserRepository), new(MockPasswordHasher)
		uc := user.NewUsecase(r, h)
		in := user.User{Name: " Alice ", Email: "Alice@Example.com", Password: "secret"}
		stored := user.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hashed-secret"}

		h.On("Hash", "secret").Return("hashed-secret", nil).Once()
		r.On("CreateUser", mock.Anything, stored).Return(user.User{ID: 1, Name: "Alice", Email: "alice@example.com"}, nil).Once()

		created, err := uc.AddUser(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		h.AssertExpectations(t)
		r.AssertExpectations(t)
	})

	t.Run("should fail validation before hashing", func(t *testing.T) {
		r, h := new(MockUserRepository), new(MockPasswordHasher)
		uc := user.NewUsecase(r, h)

		_, err := uc.AddUser(context.Background(), user.User{Email: "alice@example.com", Password: "pw"})

		assert.Equal(t, user.ErrInvalidName, err)
		h.AssertNotCalled(t, "Hash", mock.Anything)
		r.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("should surface duplicate email", func(t *testing.T) {
		r, h := new(MockUserRepository), new(MockPasswordHasher)
		uc := user.NewUsecase(r, h)
		h.On("Hash", "pw").Return("hashed", nil).Once()
		r.On("CreateUser", mock.Anything, mock.Anything).Return(user.User{}, user.ErrEmailAlreadyExists).Once()

		_, err := uc.AddUser(context.Background(), user.User{Name: "Alice", Email: "alice@example.com", Password: "pw"})

		assert.Equal(t, user.ErrEmailAlreadyExists, err)
	})

	t.Run("should fail when hashing fails", func(t *testing.T) {
		r, h := new(MockUserRepository), new(MockPasswordHasher)
		uc := user.NewUsecase(r, h)
		h.On("Hash", "pw").Return("", errors.New("hash failed")).Once()

		_, err := uc.AddUser(context.Background(), user.User{Name: "Alice", Email: "alice@example.com", Password: "pw"})

		assert.EqualError(t, err, "hash failed")
		r.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})
}

func TestGetUser(t *testing.T) {
	r, h := new(MockUserRepository), new(MockPasswordHasher)
	uc := user.NewUsecase(r, h)

	t.Run("should return stored user", func(t *testing.T) {
		r.On("GetByID", mock.Anything, int64(1)).Return(user.User{ID: 1, Name: "Alice"}, nil).Once()

		got, err := uc.GetUser(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
	})

	t.Run("should return not found for unknown id", func(t *testing.T) {
		r.On("GetByID", mock.Anything, int64(7)).Return(user.User{}, user.ErrUserNotFound).Once()

		_, err := uc.GetUser(context.Background(), 7)

		assert.Equal(t, user.ErrUserNotFound, err)
	})

	t.Run("should short circuit non positive id", func(t *testing.T) {
		_, err := uc.GetUser(context.Background(), 0)

		assert.Equal(t, user.ErrUserNotFound, err)
	})
}

func TestListUsers(t *testing.T) {
	r, h := new(MockUserRepository), new(MockPasswordHasher)
	uc := user.NewUsecase(r, h)
	users := []user.User{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}
	r.On("AllUsers", mock.Anything).Return(users, nil).Once()

	got, err := uc.ListUsers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, users, got)
}

func TestUpdateUser(t *testing.T) {
	t.Run("should replace fields using path id", func(t *testing.T) {
		r, h := new(MockUserRepository), new(MockPasswordHasher)
		uc := user.NewUsecase(r, h)
		expected := user.User{ID: 3, Name: "Alice B", Email: "alice@example.com", PasswordHash: "hashed-new"}
		h.On("Hash", "new").Return("hashed-new", nil).Once()
		r.On("UpdateUser", mock.Anything, expected).Return(expected, nil).Once()

		got, err := uc.UpdateUser(context.Background(), 3, user.User{ID: 99, Name: "Alice B", Email: "alice@example.com", Password: "new"})

		require.NoError(t, err)
		assert.Equal(t, int64(3), got.ID)
		r.AssertExpectations(t)
	})

	t.Run("should propagate not found", func(t *testing.T) {
		r, h := new(MockUserRepository), new(MockPasswordHasher)
		uc := user.NewUsecase(r, h)
		h.On("Hash", "pw").Return("hashed", nil).Once()
		r.On("UpdateUser", mock.Anything, mock.Anything).Return(user.User{}, user.ErrUserNotFound).Once()

		_, err := uc.UpdateUser(context.Background(), 3, user.User{Name: "A", Email: "a@example.com", Password: "pw"})

		assert.Equal(t, user.ErrUserNotFound, err)
	})

	t.Run("should validate input", func(t *testing.T) {
		r, h := new(MockUserRepository), new(MockPasswordHasher)
		uc := user.NewUsecase(r, h)

		_, err := uc.UpdateUser(context.Background(), 3, user.User{Name: "A", Email: "bad", Password: "pw"})

		assert.Equal(t, user.ErrInvalidEmail, err)
		r.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})
}

func TestDeleteUser(t *testing.T) {
	r, h := new(MockUserRepository), new(MockPasswordHasher)
	uc := user.NewUsecase(r, h)

	t.Run("should delete", func(t *testing.T) {
		r.On("DeleteUser", mock.Anything, int64(1)).Return(nil).Once()

		assert.NoError(t, uc.DeleteUser(context.Background(), 1))
	})

	t.Run("should return not found on second delete", func(t *testing.T) {
		r.On("DeleteUser", mock.Anything, int64(1)).Return(user.ErrUserNotFound).Once()

		assert.Equal(t, user.ErrUserNotFound, uc.DeleteUser(context.Background(), 1))
	})
}
