package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"meditrack/internal/platform/logger"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medication not found")
)

var validate = validator.New()

type Service struct {
	repo    Repository
	history HistoryWriter
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, hist HistoryWriter, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:    repo,
		history: hist,
		log:     log.With(map[string]any{"module": "medications"}),
		now:     time.Now,
	}
}

type CreateInput struct {
	Name      string    `validate:"required"`
	Dose      int       `validate:"gt=0"`
	Time      string    `validate:"required"`
	Frequency Frequency `validate:"omitempty,oneof=daily weekly custom"`
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Medication, error) {
	if strings.TrimSpace(userID) == "" {
		return Medication{}, ErrInvalidInput
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Time = strings.TrimSpace(in.Time)
	if err := validate.Struct(in); err != nil {
		return Medication{}, ErrInvalidInput
	}
	if _, err := time.Parse("15:04", in.Time); err != nil {
		return Medication{}, ErrInvalidInput
	}
	if in.Frequency == "" {
		in.Frequency = FrequencyDaily
	}

	m := Medication{
		UserID:    userID,
		Name:      in.Name,
		Dose:      in.Dose,
		Time:      in.Time,
		Frequency: in.Frequency,
		Status:    StatusPending,
		Counters:  Counters{},
		CreatedAt: s.now().UTC(),
	}

	id, err := s.repo.Create(ctx, m)
	if err != nil {
		return Medication{}, err
	}
	m.ID = id
	return m, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Medication, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

// SetStatus reconcilia y persiste. El PATCH de la medicación y el alta en el
// historial son escrituras independientes: si una falla la otra no se
// revierte. Devuelve el primer error.
func (s *Service) SetStatus(ctx context.Context, userID, id string, requested Status) (Medication, error) {
	m, err := s.owned(ctx, userID, id)
	if err != nil {
		return Medication{}, err
	}

	counters, rec, err := Reconcile(m.Status, requested, m.Counters, m, s.now())
	if err != nil {
		return Medication{}, err
	}
	if rec == nil {
		return m, nil
	}

	log := s.log.With(map[string]any{"medication_id": m.ID, "status": string(requested)})

	var first error
	if err := s.repo.UpdateStatus(ctx, m.ID, requested, counters); err != nil {
		log.Error("update medication status failed", map[string]any{"error": err})
		first = err
	}
	if _, err := s.history.Append(ctx, *rec); err != nil {
		log.Error("append history record failed", map[string]any{"error": err})
		if first == nil {
			first = err
		}
	}
	if first != nil {
		return Medication{}, first
	}

	m.Status = requested
	m.Counters = counters
	return m, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) owned(ctx context.Context, userID, id string) (Medication, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(id) == "" {
		return Medication{}, ErrInvalidInput
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}
	if m.UserID != userID {
		return Medication{}, ErrNotFound
	}
	return m, nil
}
