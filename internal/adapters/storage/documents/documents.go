// Package documents implementa los repositorios de dominio sobre un
// store.Store genérico. Es el único lugar donde se normalizan los registros
// leídos del store: campos faltantes o malformados se completan con valores
// por defecto, nunca se rechazan.
package documents

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"meditrack/internal/ports/store"
)

const (
	CollectionMedications = "medications"
	CollectionHistory     = "history"
	CollectionReminders   = "reminders"
	CollectionRenewals    = "renewals"
	CollectionProfile     = "profile"
	CollectionSettings    = "settings"
	CollectionDevices     = "devices"

	ProfileID = "default"

	userField = "userId"

	// Ancho fijo en UTC: ordena bien como string en todos los backends.
	timeLayout = "2006-01-02T15:04:05.000Z"
	dateLayout = "2006-01-02"
)

// Clock da el "hoy" usado al completar fechas faltantes.
type Clock func() time.Time

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func byUser(userID, orderBy string, desc bool) store.Query {
	return store.Query{UserField: userField, UserID: userID, OrderBy: orderBy, Desc: desc}
}

// notFound traduce store.ErrNotFound al error del dominio.
func notFound(err, domainErr error) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainErr
	}
	return err
}

// flexInt acepta número, string numérico o null. Cualquier otra cosa es 0.
// Valores fuera del rango de int quedan en el extremo; NaN se ignora.
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	raw := string(b)
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		raw = strings.TrimSpace(s)
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil
	}
	if v, ok := clampInt(n); ok {
		f.Value, f.Set = v, true
	}
	return nil
}

func clampInt(n float64) (int, bool) {
	switch {
	case math.IsNaN(n):
		return 0, false
	case n >= float64(math.MaxInt):
		return math.MaxInt, true
	case n <= float64(math.MinInt):
		return math.MinInt, true
	}
	return int(n), true
}

// flexTime acepta RFC3339 (con o sin fracción) o YYYY-MM-DD.
type flexTime struct {
	Value time.Time
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	f.Value = parseTime(s)
	return nil
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// flexString tolera números u otros escalares donde se espera texto.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	*f = flexString(b)
	return nil
}

// decode nunca falla por un campo malformado: lo que no se pueda leer queda
// en su valor por defecto.
func decode(data json.RawMessage, out any) {
	_ = json.Unmarshal(data, out)
}
