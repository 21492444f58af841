package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-clinic-api/internal/domain"
	"github.com/go-clinic-api/internal/pkg/id"
	"github.com/go-clinic-api/internal/pkg/normalize"
	"github.com/go-clinic-api/internal/pkg/otp"
)

// MinPasswordLength applies to registration and password reset.
const MinPasswordLength = 8

// Throttle purposes.
const (
	PurposeRegistration  = "registration"
	PurposePasswordReset = "password_reset"
)

var (
	errPasswordTooShort = domain.NewError(domain.ErrBadRequest, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	errEmailRegistered  = domain.NewError(domain.ErrBadRequest, "Email already registered")
	errUserNotFound     = domain.NewError(domain.ErrNotFound, "User not found")
	errMissingUsername  = domain.NewError(domain.ErrBadRequest, "Username is required")
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	SetResetOTP(ctx context.Context, userID, code string, expiresAt int64) error
	ResetPassword(ctx context.Context, userID, code, passwordHash string, now time.Time) error
}

type OTPStore interface {
	Put(ctx context.Context, o *domain.RegistrationOTP) error
	Get(ctx context.Context, email string) (*domain.RegistrationOTP, error)
	Delete(ctx context.Context, email string) error
}

type Mailer interface {
	SendEmail(to, subject, body string) error
}

// Throttle limits how often OTP mail is sent to one address.
type Throttle interface {
	Allow(ctx context.Context, purpose, email string) error
}

type Service interface {
	SendRegistrationOTP(ctx context.Context, req domain.SendRegistrationOTPRequest) error
	Register(ctx context.Context, req domain.RegisterRequest) error
	RequestPasswordReset(ctx context.Context, req domain.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
}

// ServiceDeps holds the dependencies of the auth service. Throttle is optional.
// Now and BcryptCost default to time.Now and bcrypt.DefaultCost.
type ServiceDeps struct {
	UserRepo       UserStore
	OTPRepo        OTPStore
	Mailer         Mailer
	Throttle       Throttle
	AllowedDomains []string
	OTPTTL         time.Duration
	BcryptCost     int
	Now            func() time.Time
}

type service struct {
	users      UserStore
	otps       OTPStore
	mailer     Mailer
	throttle   Throttle
	domains    map[string]struct{}
	domainsMsg error
	ttl        time.Duration
	cost       int
	now        func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		users:    deps.UserRepo,
		otps:     deps.OTPRepo,
		mailer:   deps.Mailer,
		throttle: deps.Throttle,
		domains:  make(map[string]struct{}, len(deps.AllowedDomains)),
		ttl:      deps.OTPTTL,
		cost:     deps.BcryptCost,
		now:      deps.Now,
	}
	labels := make([]string, 0, len(deps.AllowedDomains))
	for _, d := range deps.AllowedDomains {
		d = normalize.Email(d)
		s.domains[d] = struct{}{}
		labels = append(labels, "@"+d)
	}
	s.domainsMsg = domain.NewError(domain.ErrBadRequest, "Only "+strings.Join(labels, ", ")+" emails allowed")
	if s.ttl <= 0 {
		s.ttl = 10 * time.Minute
	}
	if s.cost == 0 {
		s.cost = bcrypt.DefaultCost
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) SendRegistrationOTP(ctx context.Context, req domain.SendRegistrationOTPRequest) error {
	email := normalize.Email(req.Email)
	if _, ok := s.domains[normalize.EmailDomain(email)]; !ok {
		return s.domainsMsg
	}
	if len(req.Password) < MinPasswordLength {
		return errPasswordTooShort
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return errEmailRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("lookup email: %w", err)
	}
	if err := s.allow(ctx, PurposeRegistration, email); err != nil {
		return err
	}

	code, err := otp.Generate()
	if err != nil {
		return err
	}
	rec := &domain.RegistrationOTP{
		Email:     email,
		OTP:       code,
		ExpiresAt: s.now().Add(s.ttl).Unix(),
	}
	if err := s.otps.Put(ctx, rec); err != nil {
		return fmt.Errorf("store registration otp: %w", err)
	}

	body := fmt.Sprintf("Your OTP is %s. It is valid for %s.", code, minutes(s.ttl))
	if err := s.mailer.SendEmail(email, "Registration OTP", body); err != nil {
		return fmt.Errorf("deliver registration otp: %w", err)
	}
	return nil
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) error {
	email := normalize.Email(req.Email)
	username := normalize.Username(req.Username)
	if username == "" {
		return errMissingUsername
	}
	if len(req.Password) < MinPasswordLength {
		return errPasswordTooShort
	}
	if email == "" {
		return domain.ErrInvalidOTP
	}

	rec, err := s.otps.Get(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidOTP
	}
	if err != nil {
		return fmt.Errorf("lookup registration otp: %w", err)
	}
	if !otp.Equal(rec.OTP, strings.TrimSpace(req.OTP)) || !s.before(rec.ExpiresAt) {
		return domain.ErrInvalidOTP
	}

	if err := s.ensureFree(ctx, email, username); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return err
	}

	if err := s.otps.Delete(ctx, email); err != nil {
		slog.Warn("failed to delete registration otp", "email", email, "err", err)
	}
	return nil
}

func (s *service) RequestPasswordReset(ctx context.Context, req domain.ForgotPasswordRequest) error {
	email := normalize.Email(req.Email)
	if email == "" {
		return errUserNotFound
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return errUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup email: %w", err)
	}
	if err := s.allow(ctx, PurposePasswordReset, email); err != nil {
		return err
	}

	code, err := otp.Generate()
	if err != nil {
		return err
	}
	if err := s.users.SetResetOTP(ctx, u.UserID, code, s.now().Add(s.ttl).Unix()); err != nil {
		return fmt.Errorf("store reset otp: %w", err)
	}

	body := fmt.Sprintf("Your password reset OTP is %s. Valid for %s.", code, minutes(s.ttl))
	if err := s.mailer.SendEmail(u.Email, "Password Reset OTP", body); err != nil {
		return fmt.Errorf("deliver reset otp: %w", err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	email := normalize.Email(req.Email)
	if len(req.NewPassword) < MinPasswordLength {
		return errPasswordTooShort
	}
	code := strings.TrimSpace(req.OTP)
	if email == "" || code == "" {
		return domain.ErrInvalidOTP
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidOTP
	}
	if err != nil {
		return fmt.Errorf("lookup email: %w", err)
	}
	if u.ResetOTP == nil || u.ResetOTPExpires == nil ||
		!otp.Equal(*u.ResetOTP, code) || !s.before(*u.ResetOTPExpires) {
		return domain.ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cost)
	if err != nil {
		return err
	}
	return s.users.ResetPassword(ctx, u.UserID, code, string(hash), s.now())
}

// ensureFree reports a taken email or username before the create transaction,
// which enforces the same rule at the storage level.
func (s *service) ensureFree(ctx context.Context, email, username string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("lookup email: %w", err)
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("lookup username: %w", err)
	}
	return nil
}

func (s *service) allow(ctx context.Context, purpose, email string) error {
	if s.throttle == nil {
		return nil
	}
	return s.throttle.Allow(ctx, purpose, email)
}

// before reports whether the current time is strictly before expiresAt (Unix seconds).
func (s *service) before(expiresAt int64) bool {
	return s.now().Unix() < expiresAt
}

func minutes(d time.Duration) string {
	n := int(d / time.Minute)
	if n == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", n)
}
