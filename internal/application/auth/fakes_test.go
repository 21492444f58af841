package auth

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/go-clinic-api/internal/domain"
)

// memUsers mirrors the conditional semantics of dynamo.UserRepo.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*domain.User{}} }

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.users {
		if other.Email == u.Email {
			return domain.ErrEmailTaken
		}
		if other.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	cp := *u
	m.users[u.UserID] = &cp
	return nil
}

func (m *memUsers) SetResetOTP(_ context.Context, userID, code string, expiresAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.ResetOTP = &code
	u.ResetOTPExpires = &expiresAt
	return nil
}

func (m *memUsers) ResetPassword(_ context.Context, userID, code, hash string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.ResetOTP == nil || *u.ResetOTP != code || *u.ResetOTPExpires <= now.Unix() {
		return domain.ErrInvalidOTP
	}
	u.PasswordHash = hash
	u.ResetOTP = nil
	u.ResetOTPExpires = nil
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type memOTPs struct {
	mu   sync.Mutex
	recs map[string]domain.RegistrationOTP
}

func newMemOTPs() *memOTPs { return &memOTPs{recs: map[string]domain.RegistrationOTP{}} }

func (m *memOTPs) Put(_ context.Context, o *domain.RegistrationOTP) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[o.Email] = *o
	return nil
}

func (m *memOTPs) Get(_ context.Context, email string) (*domain.RegistrationOTP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.recs[email]
	if !ok {
		return nil, fmt.Errorf("registration otp not found: %w", domain.ErrNotFound)
	}
	return &o, nil
}

func (m *memOTPs) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, email)
	return nil
}

type sentMail struct{ to, subject, body string }

type outbox struct {
	mu   sync.Mutex
	sent []sentMail
}

func (o *outbox) SendEmail(to, subject, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, sentMail{to, subject, body})
	return nil
}

var codeRe = regexp.MustCompile(`\b\d{6}\b`)

func (o *outbox) lastCode() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.sent) == 0 {
		return ""
	}
	return codeRe.FindString(o.sent[len(o.sent)-1].body)
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }
