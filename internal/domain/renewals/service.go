package renewals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("renewal not found")
	ErrBadState     = errors.New("invalid renewal state transition")
)

var validate = validator.New()

const dateLayout = "2006-01-02"

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string `validate:"required"`
	Remaining *int   `validate:"omitempty,gte=0"` // nil se guarda como 0
	RefillBy  string // YYYY-MM-DD opcional
	Pharmacy  string
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (View, error) {
	if strings.TrimSpace(userID) == "" {
		return View{}, ErrInvalidInput
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return View{}, ErrInvalidInput
	}
	if in.Remaining == nil {
		zero := 0
		in.Remaining = &zero
	}

	var refillBy *time.Time
	if v := strings.TrimSpace(in.RefillBy); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return View{}, ErrInvalidInput
		}
		refillBy = &t
	}

	now := s.now().UTC()
	it := Item{
		UserID:    userID,
		Name:      in.Name,
		Remaining: in.Remaining,
		RefillBy:  refillBy,
		Pharmacy:  strings.TrimSpace(in.Pharmacy),
		Status:    StatusOK,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.repo.Create(ctx, it)
	if err != nil {
		return View{}, err
	}
	it.ID = id
	return s.view(it), nil
}

// List devuelve los items del usuario, más nuevos primero, con badge.
func (s *Service) List(ctx context.Context, userID string) ([]View, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]View, 0, len(items))
	for _, it := range items {
		out = append(out, s.view(it))
	}
	return out, nil
}

// MarkRequested: ok | expiring | overdue | denied -> requested.
func (s *Service) MarkRequested(ctx context.Context, userID, id string) (View, error) {
	return s.transition(ctx, userID, id, StatusRequested,
		StatusOK, StatusExpiring, StatusOverdue, StatusDenied)
}

// MarkApproved: requested -> approved.
func (s *Service) MarkApproved(ctx context.Context, userID, id string) (View, error) {
	return s.transition(ctx, userID, id, StatusApproved, StatusRequested)
}

// Deny registra una decisión externa: requested -> denied.
func (s *Service) Deny(ctx context.Context, userID, id string) (View, error) {
	return s.transition(ctx, userID, id, StatusDenied, StatusRequested)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) transition(ctx context.Context, userID, id string, to Status, from ...Status) (View, error) {
	it, err := s.owned(ctx, userID, id)
	if err != nil {
		return View{}, err
	}
	if it.Status == to {
		return s.view(it), nil
	}

	allowed := false
	for _, f := range from {
		if it.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return View{}, ErrBadState
	}

	now := s.now().UTC()
	p := StatusPatch{Status: to, UpdatedAt: now}
	if to == StatusRequested {
		p.RequestedAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, p); err != nil {
		return View{}, err
	}

	it.Status = to
	it.UpdatedAt = now
	if p.RequestedAt != nil {
		it.RequestedAt = p.RequestedAt
	}
	return s.view(it), nil
}

func (s *Service) owned(ctx context.Context, userID, id string) (Item, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(id) == "" {
		return Item{}, ErrInvalidInput
	}
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if it.UserID != userID {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (s *Service) view(it Item) View {
	today := s.now()
	return View{
		Item:     it,
		DaysLeft: DaysUntil(it.RefillBy, today),
		Badge:    Classify(it.Remaining, it.RefillBy, it.Status, today),
	}
}
