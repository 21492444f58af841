package appointment

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-clinic-api/internal/domain"
	"github.com/go-clinic-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName       = "name"
	fieldFatherName = "father_name"
	fieldEmail      = "email"
	fieldGender     = "gender"
	fieldDate       = "date"
	fieldAge        = "age"
	fieldContact    = "contact"
	fieldAddress    = "address"
	fieldCountry    = "country"
	fieldService    = "service"
	fieldSchedule   = "schedule"
	fieldStatus     = "status"
	fieldUpdatedAt  = "updated_at"
)

const dateLayout = "2006-01-02"

var errInvalidDate = domain.NewError(domain.ErrBadRequest, "Invalid date, expected YYYY-MM-DD")

func blankField(field string) error {
	return domain.NewError(domain.ErrBadRequest, fmt.Sprintf("field '%s' must not be blank", field))
}

type Service interface {
	Create(ctx context.Context, req domain.CreateAppointmentRequest) (*domain.Appointment, error)
	List(ctx context.Context) ([]domain.Appointment, error)
	Get(ctx context.Context, id string) (*domain.Appointment, error)
	Update(ctx context.Context, id string, req domain.UpdateAppointmentRequest) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
	BackfillStatus(ctx context.Context) (int, error)
}

type appointmentStore interface {
	Put(ctx context.Context, a *domain.Appointment) error
	Get(ctx context.Context, id string) (*domain.Appointment, error)
	ScanAll(ctx context.Context) ([]domain.Appointment, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
	BackfillStatus(ctx context.Context) (int, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type ServiceDeps struct {
	Repo      appointmentStore
	SMSSender smsSender // optional
	Now       func() time.Time
}

type service struct {
	repo appointmentStore
	sms  smsSender
	now  func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: deps.Repo, sms: deps.SMSSender, now: now}
}

func (s *service) Create(ctx context.Context, req domain.CreateAppointmentRequest) (*domain.Appointment, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = domain.AppointmentPending
	}
	now := s.now().UTC()
	a := &domain.Appointment{
		AppointmentID: id.New(),
		Name:          strings.TrimSpace(req.Name),
		FatherName:    strings.TrimSpace(req.FatherName),
		Email:         strings.TrimSpace(req.Email),
		Gender:        req.Gender,
		Date:          date,
		Age:           req.Age,
		Contact:       strings.TrimSpace(req.Contact),
		Address:       req.Address,
		Country:       req.Country,
		Service:       req.Service,
		Schedule:      req.Schedule,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}
	s.confirm(ctx, a)
	return a, nil
}

// confirm texts the patient. Delivery problems never fail the booking.
func (s *service) confirm(ctx context.Context, a *domain.Appointment) {
	if s.sms == nil || a.Contact == "" {
		return
	}
	msg := fmt.Sprintf("Your %s appointment on %s (%s) has been booked.",
		a.Service, a.Date.Format(dateLayout), a.Schedule)
	if err := s.sms.SendSMS(ctx, a.Contact, msg); err != nil {
		slog.Warn("appointment sms failed", "appointment_id", a.AppointmentID, "err", err)
	}
}

// List returns all appointments, newest first.
func (s *service) List(ctx context.Context) ([]domain.Appointment, error) {
	all, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = []domain.Appointment{}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateAppointmentRequest) (*domain.Appointment, error) {
	updates := map[string]interface{}{
		fieldUpdatedAt: s.now().UTC(),
	}
	strs := []struct {
		field string
		v     *string
	}{
		{fieldName, req.Name},
		{fieldFatherName, req.FatherName},
		{fieldEmail, req.Email},
		{fieldGender, req.Gender},
		{fieldContact, req.Contact},
		{fieldAddress, req.Address},
		{fieldCountry, req.Country},
		{fieldService, req.Service},
		{fieldSchedule, req.Schedule},
		{fieldStatus, req.Status},
	}
	for _, f := range strs {
		if f.v == nil {
			continue
		}
		v := strings.TrimSpace(*f.v)
		if v == "" {
			return nil, blankField(f.field)
		}
		updates[f.field] = v
	}
	if req.Age != nil {
		updates[fieldAge] = *req.Age
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		updates[fieldDate] = date
	}
	return s.repo.Update(ctx, id, updates)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) BackfillStatus(ctx context.Context) (int, error) {
	return s.repo.BackfillStatus(ctx)
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errInvalidDate
}
