package history

import (
	"context"
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List devuelve el historial del usuario filtrado, más reciente primero.
func (s *Service) List(ctx context.Context, userID string, f Filter) ([]Record, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := Apply(items, f)
	SortNewestFirst(out)
	return out, nil
}

func Apply(items []Record, f Filter) []Record {
	status := strings.TrimSpace(f.Status)
	name := strings.ToLower(strings.TrimSpace(f.Name))

	out := make([]Record, 0, len(items))
	for _, r := range items {
		if status != "" && r.Status != status {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(r.Name), name) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortNewestFirst ordena por fecha y hora descendente.
// YYYY-MM-DD y HH:MM ordenan bien como string.
func SortNewestFirst(items []Record) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date > items[j].Date
		}
		return items[i].Time > items[j].Time
	})
}

// GroupByDate respeta el orden de entrada: el primer día visto va primero.
func GroupByDate(items []Record) []Group {
	out := make([]Group, 0)
	idx := map[string]int{}
	for _, r := range items {
		i, ok := idx[r.Date]
		if !ok {
			i = len(out)
			idx[r.Date] = i
			out = append(out, Group{Date: r.Date})
		}
		out[i].Records = append(out[i].Records, r)
	}
	return out
}
