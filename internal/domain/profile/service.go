package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("profile not found")
)

var validate = validator.New()

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type SaveInput struct {
	Name       string `validate:"max=200"`
	Age        int    `validate:"gte=0,lte=150"`
	Allergies  string `validate:"max=2000"`
	Conditions string `validate:"max=2000"`
	Doctor     string `validate:"max=500"`
}

// Get devuelve el perfil vacío si todavía no existe.
func (s *Service) Get(ctx context.Context) (Profile, error) {
	p, err := s.repo.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		return Profile{}, nil
	}
	return p, err
}

func (s *Service) Save(ctx context.Context, in SaveInput) (Profile, error) {
	if err := validate.Struct(in); err != nil {
		return Profile{}, ErrInvalidInput
	}

	p := Profile{
		Name:       strings.TrimSpace(in.Name),
		Age:        in.Age,
		Allergies:  strings.TrimSpace(in.Allergies),
		Conditions: strings.TrimSpace(in.Conditions),
		Doctor:     strings.TrimSpace(in.Doctor),
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
