package accounts

import (
	"context"
	"errors"
	"strings"

	"meditrack/internal/ports/auth"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("identity provider not configured")
)

var validate = validator.New()

// Service es la fachada de registro y login; la autenticación en sí la
// resuelve el proveedor de identidad.
type Service struct {
	provider auth.IdentityProvider
}

func NewService(provider auth.IdentityProvider) *Service {
	return &Service{provider: provider}
}

type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func (s *Service) SignUp(ctx context.Context, in Credentials) (auth.Session, error) {
	if err := s.check(&in); err != nil {
		return auth.Session{}, err
	}
	return s.provider.SignUp(ctx, in.Email, in.Password)
}

func (s *Service) Login(ctx context.Context, in Credentials) (auth.Session, error) {
	if err := s.check(&in); err != nil {
		return auth.Session{}, err
	}
	return s.provider.SignIn(ctx, in.Email, in.Password)
}

func (s *Service) check(in *Credentials) error {
	if s.provider == nil {
		return ErrUnavailable
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		return ErrInvalidInput
	}
	return nil
}
