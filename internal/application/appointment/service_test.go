package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-clinic-api/internal/domain"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, a *domain.Appointment) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockStore) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	if a, _ := args.Get(0).(*domain.Appointment); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) ScanAll(ctx context.Context) ([]domain.Appointment, error) {
	args := m.Called(ctx)
	all, _ := args.Get(0).([]domain.Appointment)
	return all, args.Error(1)
}
func (m *mockStore) Update(ctx context.Context, id string, updates map[string]interface{}) (*domain.Appointment, error) {
	args := m.Called(ctx, id, updates)
	if a, _ := args.Get(0).(*domain.Appointment); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockStore) BackfillStatus(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, to, msg string) error {
	return m.Called(ctx, to, msg).Error(0)
}

var now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func validRequest() domain.CreateAppointmentRequest {
	return domain.CreateAppointmentRequest{
		Name: "Sara", FatherName: "Ahmed", Email: "s@gmail.com", Gender: "Female",
		Date: "2024-06-10", Age: 31, Contact: "+923001234567", Address: "12 Mall Rd",
		Country: "Pakistan", Service: "Dental", Schedule: "10:00-10:30",
	}
}

func TestCreate_DefaultsStatusAndParsesDate(t *testing.T) {
	repo := &mockStore{}
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Appointment")).Return(nil)
	svc := NewService(ServiceDeps{Repo: repo, Now: func() time.Time { return now }})

	a, err := svc.Create(context.Background(), validRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, a.AppointmentID)
	assert.Equal(t, domain.AppointmentPending, a.Status)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), a.Date)
	assert.Equal(t, now, a.CreatedAt)
}

func TestCreate_AcceptsRFC3339(t *testing.T) {
	repo := &mockStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	req := validRequest()
	req.Date = "2024-06-10T08:30:00+05:00"
	req.Status = domain.AppointmentComplete

	a, err := NewService(ServiceDeps{Repo: repo}).Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 3, 30, 0, 0, time.UTC), a.Date)
	assert.Equal(t, domain.AppointmentComplete, a.Status)
}

func TestCreate_InvalidDate(t *testing.T) {
	repo := &mockStore{}
	req := validRequest()
	req.Date = "10/06/2024"

	_, err := NewService(ServiceDeps{Repo: repo}).Create(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrBadRequest)
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreate_SMSFailureDoesNotFailBooking(t *testing.T) {
	repo := &mockStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	sms := &mockSMS{}
	sms.On("SendSMS", mock.Anything, "+923001234567", mock.Anything).Return(errors.New("sns down"))

	_, err := NewService(ServiceDeps{Repo: repo, SMSSender: sms}).Create(context.Background(), validRequest())

	require.NoError(t, err)
	sms.AssertExpectations(t)
}

func TestList_NewestFirst(t *testing.T) {
	repo := &mockStore{}
	repo.On("ScanAll", mock.Anything).Return([]domain.Appointment{
		{AppointmentID: "old", CreatedAt: now.Add(-2 * time.Hour)},
		{AppointmentID: "new", CreatedAt: now},
		{AppointmentID: "mid", CreatedAt: now.Add(-time.Hour)},
	}, nil)

	all, err := NewService(ServiceDeps{Repo: repo}).List(context.Background())

	require.NoError(t, err)
	ids := []string{all[0].AppointmentID, all[1].AppointmentID, all[2].AppointmentID}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)
}

func TestUpdate_OnlyProvidedFields(t *testing.T) {
	repo := &mockStore{}
	status := domain.AppointmentComplete
	age := 40
	repo.On("Update", mock.Anything, "a1", map[string]interface{}{
		fieldStatus:    status,
		fieldAge:       age,
		fieldUpdatedAt: now,
	}).Return(&domain.Appointment{AppointmentID: "a1", Status: status, Age: age}, nil)
	svc := NewService(ServiceDeps{Repo: repo, Now: func() time.Time { return now }})

	a, err := svc.Update(context.Background(), "a1", domain.UpdateAppointmentRequest{Status: &status, Age: &age})

	require.NoError(t, err)
	assert.Equal(t, status, a.Status)
	repo.AssertExpectations(t)
}

func TestUpdate_RejectsBlankRequiredField(t *testing.T) {
	repo := &mockStore{}
	blank := "   "
	name := "Sara"

	_, err := NewService(ServiceDeps{Repo: repo}).Update(context.Background(), "a1",
		domain.UpdateAppointmentRequest{Name: &name, Contact: &blank})

	assert.ErrorIs(t, err, domain.ErrBadRequest)
	assert.EqualError(t, err, "field 'contact' must not be blank")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_TrimsValues(t *testing.T) {
	repo := &mockStore{}
	name := "  Sara "
	repo.On("Update", mock.Anything, "a1", map[string]interface{}{
		fieldName:      "Sara",
		fieldUpdatedAt: now,
	}).Return(&domain.Appointment{AppointmentID: "a1", Name: "Sara"}, nil)
	svc := NewService(ServiceDeps{Repo: repo, Now: func() time.Time { return now }})

	_, err := svc.Update(context.Background(), "a1", domain.UpdateAppointmentRequest{Name: &name})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdate_Missing(t *testing.T) {
	repo := &mockStore{}
	repo.On("Update", mock.Anything, "nope", mock.Anything).Return(nil, domain.ErrNotFound)

	_, err := NewService(ServiceDeps{Repo: repo}).Update(context.Background(), "nope", domain.UpdateAppointmentRequest{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_Missing(t *testing.T) {
	repo := &mockStore{}
	repo.On("Delete", mock.Anything, "nope").Return(domain.ErrNotFound)

	err := NewService(ServiceDeps{Repo: repo}).Delete(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBackfillStatus(t *testing.T) {
	repo := &mockStore{}
	repo.On("BackfillStatus", mock.Anything).Return(3, nil)

	n, err := NewService(ServiceDeps{Repo: repo}).BackfillStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
