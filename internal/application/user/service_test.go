package user

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-clinic-api/internal/domain"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) ListSummaries(ctx context.Context) ([]domain.UserSummary, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]domain.UserSummary)
	return users, args.Error(1)
}

type captureStore struct {
	key, contentType string
	body             []byte
}

func (c *captureStore) Upload(_ context.Context, key string, r io.Reader, contentType string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	c.key, c.contentType, c.body = key, contentType, b
	return "s3://bucket/" + key, nil
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("ListSummaries", mock.Anything).Return(nil, nil)

	users, err := NewService(repo, nil).List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestList_PropagatesError(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("ListSummaries", mock.Anything).Return(nil, errors.New("scan failed"))

	_, err := NewService(repo, nil).List(context.Background())
	assert.Error(t, err)
}

func TestExport_UploadsSnapshot(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := &mockUserStore{}
	repo.On("ListSummaries", mock.Anything).Return([]domain.UserSummary{
		{Username: "ali", Email: "a@gmail.com", CreatedAt: created},
	}, nil)
	store := &captureStore{}

	loc, err := NewService(repo, store).Export(context.Background(), "exports/users.json")

	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/exports/users.json", loc)
	assert.Equal(t, "application/json", store.contentType)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(store.body, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "ali", got[0]["username"])
	assert.Equal(t, "a@gmail.com", got[0]["email"])
	assert.Equal(t, "2024-01-02T03:04:05Z", got[0]["createdAt"])
	_, hasHash := got[0]["passwordHash"]
	assert.False(t, hasHash)
}

func TestExport_RequiresStore(t *testing.T) {
	_, err := NewService(&mockUserStore{}, nil).Export(context.Background(), "k")
	assert.Error(t, err)
}
