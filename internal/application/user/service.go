package user

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-clinic-api/internal/domain"
)

type Service interface {
	List(ctx context.Context) ([]domain.UserSummary, error)
	// Export uploads a JSON snapshot of List under key and returns its location.
	Export(ctx context.Context, key string) (string, error)
}

type userStore interface {
	ListSummaries(ctx context.Context) ([]domain.UserSummary, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	repo    userStore
	objects objectStore
}

// NewService builds the user service. objects may be nil when exports are not used.
func NewService(repo userStore, objects objectStore) Service {
	return &service{repo: repo, objects: objects}
}

func (s *service) List(ctx context.Context) ([]domain.UserSummary, error) {
	users, err := s.repo.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.UserSummary{}
	}
	return users, nil
}

func (s *service) Export(ctx context.Context, key string) (string, error) {
	if s.objects == nil {
		return "", fmt.Errorf("no object store configured")
	}
	users, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(users); err != nil {
		return "", fmt.Errorf("encode users: %w", err)
	}
	return s.objects.Upload(ctx, key, &buf, "application/json")
}
