package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/go-clinic-api/internal/domain"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_ByEmail(t *testing.T) {
	u := &domain.User{UserID: "u1", Username: "ali", Email: "a@gmail.com", PasswordHash: hashed(t, "password1")}
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@gmail.com").Return(u, nil)
	sg := &mockSigner{}
	sg.On("Sign", "u1").Return("tok", nil)

	res, err := NewService(us, sg).Login(context.Background(), domain.LoginRequest{
		UsernameOrEmail: " A@Gmail.com", Password: "password1",
	})

	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "u1", res.User.UserID)
	us.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
}

func TestLogin_FallsBackToUsername(t *testing.T) {
	u := &domain.User{UserID: "u1", Username: "Ali", Email: "a@gmail.com", PasswordHash: hashed(t, "password1")}
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ali").Return(nil, domain.ErrNotFound)
	us.On("GetByUsername", mock.Anything, "Ali").Return(u, nil)
	sg := &mockSigner{}
	sg.On("Sign", "u1").Return("tok", nil)

	res, err := NewService(us, sg).Login(context.Background(), domain.LoginRequest{
		UsernameOrEmail: "Ali", Password: "password1",
	})

	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	u := &domain.User{UserID: "u1", Username: "ali", Email: "a@gmail.com", PasswordHash: hashed(t, "password1")}
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@gmail.com").Return(u, nil)
	us.On("GetByEmail", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)
	us.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)
	svc := NewService(us, &mockSigner{})

	_, wrongPw := svc.Login(context.Background(), domain.LoginRequest{UsernameOrEmail: "a@gmail.com", Password: "nope-nope"})
	_, unknown := svc.Login(context.Background(), domain.LoginRequest{UsernameOrEmail: "ghost", Password: "password1"})

	assert.Equal(t, domain.ErrInvalidCredentials, wrongPw)
	assert.Equal(t, wrongPw, unknown)
}

func TestLogin_StoreErrorIsNotCredentialError(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@gmail.com").Return(nil, errors.New("dynamo down"))

	_, err := NewService(us, &mockSigner{}).Login(context.Background(), domain.LoginRequest{
		UsernameOrEmail: "a@gmail.com", Password: "password1",
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrBadRequest)
}

func TestLogin_BlankIdentifierNeverReachesStore(t *testing.T) {
	us := &mockUserStore{}

	_, err := NewService(us, &mockSigner{}).Login(context.Background(), domain.LoginRequest{
		UsernameOrEmail: "  \t ", Password: "password1",
	})

	assert.Equal(t, domain.ErrInvalidCredentials, err)
	us.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	us.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
}

func TestDummyHash_MatchesRealHashCost(t *testing.T) {
	cost, err := bcrypt.Cost(dummyHash())
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
	assert.Error(t, bcrypt.CompareHashAndPassword(dummyHash(), []byte("password1")))
}
