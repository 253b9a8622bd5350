package devices

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("device not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Register es idempotente por token: si ya existe para el usuario, lo devuelve.
func (s *Service) Register(ctx context.Context, userID, token string) (Device, error) {
	token = strings.TrimSpace(token)
	if strings.TrimSpace(userID) == "" || token == "" {
		return Device{}, ErrInvalidInput
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return Device{}, err
	}
	for _, d := range existing {
		if d.Token == token {
			return d, nil
		}
	}

	d := Device{UserID: userID, Token: token, CreatedAt: s.now().UTC()}
	id, err := s.repo.Create(ctx, d)
	if err != nil {
		return Device{}, err
	}
	d.ID = id
	return d, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Device, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Unregister(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.UserID != userID {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// Tokens devuelve los tokens push del usuario (para el notifier).
func (s *Service) Tokens(ctx context.Context, userID string) ([]string, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, d := range items {
		out = append(out, d.Token)
	}
	return out, nil
}
