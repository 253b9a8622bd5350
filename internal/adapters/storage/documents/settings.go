package documents

import (
	"context"
	"encoding/json"

	"meditrack/internal/domain/settings"
	"meditrack/internal/ports/store"
)

type settingsDoc struct {
	Theme     flexString `json:"theme"`
	UpdatedAt flexTime   `json:"updatedAt"`
}

type settingsRecord struct {
	UserID    string `json:"userId"`
	Theme     string `json:"theme"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// SettingsRepo usa el id de usuario como id de documento.
type SettingsRepo struct {
	store store.Store
}

func NewSettingsRepo(s store.Store) *SettingsRepo {
	return &SettingsRepo{store: s}
}

func (r *SettingsRepo) Get(ctx context.Context, userID string) (settings.Settings, error) {
	var raw json.RawMessage
	if err := r.store.Get(ctx, CollectionSettings, userID, &raw); err != nil {
		return settings.Settings{}, notFound(err, settings.ErrNotFound)
	}
	var doc settingsDoc
	decode(raw, &doc)

	out := settings.Defaults(userID)
	switch t := settings.Theme(doc.Theme); t {
	case settings.ThemeLight, settings.ThemeDark:
		out.Theme = t
	}
	out.UpdatedAt = doc.UpdatedAt.Value
	return out, nil
}

func (r *SettingsRepo) Put(ctx context.Context, s settings.Settings) error {
	return r.store.Put(ctx, CollectionSettings, s.UserID, settingsRecord{
		UserID:    s.UserID,
		Theme:     string(s.Theme),
		UpdatedAt: formatTime(s.UpdatedAt),
	})
}
