package medications

import (
	"errors"
	"time"

	"meditrack/internal/domain/history"
)

var (
	ErrInvalidStatus = errors.New("invalid status")
)

const dateLayout = "2006-01-02"

// Reconcile calcula los contadores nuevos y el registro de historial para
// pasar de prev a requested. Si no hay cambio devuelve los contadores tal cual
// y record == nil. Solo taken y missed se pueden pedir.
func Reconcile(prev, requested Status, counters Counters, snap Medication, today time.Time) (Counters, *history.Record, error) {
	if requested == prev {
		return counters, nil, nil
	}
	if requested != StatusTaken && requested != StatusMissed {
		return counters, nil, ErrInvalidStatus
	}

	rec := &history.Record{
		MedicationID: snap.ID,
		UserID:       snap.UserID,
		Name:         snap.Name,
		Dose:         snap.Dose,
		Time:         snap.Time,
		Frequency:    string(snap.Frequency),
		Status:       string(requested),
		Date:         today.Format(dateLayout),
	}
	return CountersFor(requested), rec, nil
}
