package reports

import (
	"context"
	"errors"
	"strings"

	"meditrack/internal/domain/medications"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// MedicationLister es lo que el reporte necesita de medicaciones.
type MedicationLister interface {
	ListByUser(ctx context.Context, userID string) ([]medications.Medication, error)
}

// Adherence suma los contadores de todas las medicaciones del usuario.
// Los contadores reflejan solo el último resultado de cada una.
type Adherence struct {
	Taken   int
	Missed  int
	Pending int
	Total   int
	Rate    float64 // taken / (taken + missed); 0 sin datos
}

type Service struct {
	meds MedicationLister
}

func NewService(meds MedicationLister) *Service {
	return &Service{meds: meds}
}

func (s *Service) Adherence(ctx context.Context, userID string) (Adherence, error) {
	if strings.TrimSpace(userID) == "" {
		return Adherence{}, ErrInvalidInput
	}
	items, err := s.meds.ListByUser(ctx, userID)
	if err != nil {
		return Adherence{}, err
	}
	return Summarize(items), nil
}

func Summarize(items []medications.Medication) Adherence {
	var a Adherence
	for _, m := range items {
		a.Taken += m.Counters.Taken
		a.Missed += m.Counters.Missed
		if m.Status == medications.StatusPending {
			a.Pending++
		}
	}
	a.Total = len(items)
	if done := a.Taken + a.Missed; done > 0 {
		a.Rate = float64(a.Taken) / float64(done)
	}
	return a
}
