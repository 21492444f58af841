package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-clinic-api/internal/domain"
	"github.com/go-clinic-api/internal/pkg/normalize"
)

// dummyHash is compared against when no account matches, so unknown
// identifiers cost the same bcrypt work as wrong passwords.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
})

type LoginResult struct {
	Token string
	User  *domain.User
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type TokenSigner interface {
	Sign(userID string) (string, error)
}

type Service interface {
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
}

type service struct {
	users  UserStore
	signer TokenSigner
}

func NewService(users UserStore, signer TokenSigner) Service {
	return &service{users: users, signer: signer}
}

// Login resolves the identifier as an email first, then as a username.
// Unknown identifiers and wrong passwords fail with the same error.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	u, err := s.resolve(ctx, req.UsernameOrEmail)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(req.Password))
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := s.signer.Sign(u.UserID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{Token: token, User: u}, nil
}

func (s *service) resolve(ctx context.Context, identifier string) (*domain.User, error) {
	email, username := normalize.Email(identifier), normalize.Username(identifier)
	if email == "" || username == "" {
		return nil, domain.ErrInvalidCredentials
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	u, err = s.users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	return u, nil
}
