package settings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("settings not found")
)

var validate = validator.New()

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type UpdateInput struct {
	Theme Theme `validate:"required,oneof=light dark"`
}

func (s *Service) Get(ctx context.Context, userID string) (Settings, error) {
	if strings.TrimSpace(userID) == "" {
		return Settings{}, ErrInvalidInput
	}
	st, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Defaults(userID), nil
	}
	return st, err
}

func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (Settings, error) {
	if strings.TrimSpace(userID) == "" {
		return Settings{}, ErrInvalidInput
	}
	in.Theme = Theme(strings.ToLower(strings.TrimSpace(string(in.Theme))))
	if err := validate.Struct(in); err != nil {
		return Settings{}, ErrInvalidInput
	}

	st := Settings{UserID: userID, Theme: in.Theme, UpdatedAt: s.now().UTC()}
	if err := s.repo.Put(ctx, st); err != nil {
		return Settings{}, err
	}
	return st, nil
}
