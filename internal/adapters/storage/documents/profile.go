package documents

import (
	"context"
	"encoding/json"

	"meditrack/internal/domain/profile"
	"meditrack/internal/ports/store"
)

type profileDoc struct {
	Name       flexString `json:"name"`
	Age        flexInt    `json:"age"`
	Allergies  flexString `json:"allergies"`
	Conditions flexString `json:"conditions"`
	Doctor     flexString `json:"doctor"`
	UpdatedAt  flexTime   `json:"updatedAt"`
}

type profileRecord struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Allergies  string `json:"allergies"`
	Conditions string `json:"conditions"`
	Doctor     string `json:"doctor"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// ProfileRepo guarda el único perfil en profile/default.
type ProfileRepo struct {
	store store.Store
}

func NewProfileRepo(s store.Store) *ProfileRepo {
	return &ProfileRepo{store: s}
}

func (r *ProfileRepo) Get(ctx context.Context) (profile.Profile, error) {
	var raw json.RawMessage
	if err := r.store.Get(ctx, CollectionProfile, ProfileID, &raw); err != nil {
		return profile.Profile{}, notFound(err, profile.ErrNotFound)
	}
	var doc profileDoc
	decode(raw, &doc)

	age := doc.Age.Value
	if age < 0 {
		age = 0
	}
	return profile.Profile{
		Name:       string(doc.Name),
		Age:        age,
		Allergies:  string(doc.Allergies),
		Conditions: string(doc.Conditions),
		Doctor:     string(doc.Doctor),
		UpdatedAt:  doc.UpdatedAt.Value,
	}, nil
}

func (r *ProfileRepo) Put(ctx context.Context, p profile.Profile) error {
	return r.store.Put(ctx, CollectionProfile, ProfileID, profileRecord{
		Name:       p.Name,
		Age:        p.Age,
		Allergies:  p.Allergies,
		Conditions: p.Conditions,
		Doctor:     p.Doctor,
		UpdatedAt:  formatTime(p.UpdatedAt),
	})
}
