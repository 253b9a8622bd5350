package reminders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("reminder not found")
)

var validate = validator.New()

// Formatos aceptados para el instante del aviso. Los que no traen zona se
// interpretan en la zona local del servicio.
var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

type Service struct {
	repo    Repository
	manager *Manager // opcional
	now     func() time.Time
	loc     *time.Location
}

func NewService(repo Repository, manager *Manager) *Service {
	return &Service{
		repo:    repo,
		manager: manager,
		now:     time.Now,
		loc:     time.Local,
	}
}

type CreateInput struct {
	Medication string `validate:"required"`
	Time       string `validate:"required"`
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Reminder, error) {
	if strings.TrimSpace(userID) == "" {
		return Reminder{}, ErrInvalidInput
	}
	in.Medication = strings.TrimSpace(in.Medication)
	in.Time = strings.TrimSpace(in.Time)
	if err := validate.Struct(in); err != nil {
		return Reminder{}, ErrInvalidInput
	}

	when, err := ParseTime(in.Time, s.loc)
	if err != nil {
		return Reminder{}, ErrInvalidInput
	}

	r := Reminder{
		UserID:     userID,
		Medication: in.Medication,
		Time:       when.UTC(),
		CreatedAt:  s.now().UTC(),
	}
	id, err := s.repo.Create(ctx, r)
	if err != nil {
		return Reminder{}, err
	}
	r.ID = id
	return r, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Reminder, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.UserID != userID {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.manager != nil {
		s.manager.Cancel(userID, id)
	}
	return nil
}

// Watch y Unwatch montan / desmontan el scheduler del usuario.
func (s *Service) Watch(ctx context.Context, userID string) error {
	if s.manager == nil {
		return nil
	}
	return s.manager.Watch(ctx, userID)
}

func (s *Service) Unwatch(userID string) {
	if s.manager != nil {
		s.manager.Unwatch(userID)
	}
}

func (s *Service) State(userID, id string) State {
	if s.manager == nil {
		return StateUnknown
	}
	return s.manager.State(userID, id)
}

// LocalTime formatea el instante en la zona del servicio.
func (s *Service) LocalTime(t time.Time) string {
	return t.In(s.loc).Format("2006-01-02 15:04")
}

// ParseTime acepta RFC3339 o fecha-hora local sin zona (YYYY-MM-DDTHH:MM).
func ParseTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	var lastErr error
	for _, layout := range localLayouts {
		t, err := time.ParseInLocation(layout, v, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
