package renewals

import (
	"math"
	"time"
)

type Tone string

const (
	ToneGreen  Tone = "green"
	ToneYellow Tone = "yellow"
	ToneRed    Tone = "red"
	ToneBlue   Tone = "blue"
)

type Badge struct {
	Label string
	Tone  Tone
}

var (
	BadgeOK       = Badge{Label: "OK", Tone: ToneGreen}
	BadgePending  = Badge{Label: "Pending", Tone: ToneBlue}
	BadgeApproved = Badge{Label: "Approved", Tone: ToneGreen}
	BadgeDenied   = Badge{Label: "Denied", Tone: ToneRed}
	BadgeOverdue  = Badge{Label: "Overdue", Tone: ToneRed}
	BadgeExpiring = Badge{Label: "Expiring Soon", Tone: ToneYellow}
)

const (
	lowStock      = 5
	soonThreshold = 3 // días
)

// Classify deriva la urgencia del item. Función pura: se recalcula en cada
// lectura y nunca se guarda.
func Classify(remaining *int, refillBy *time.Time, status Status, today time.Time) Badge {
	switch status {
	case StatusRequested:
		return BadgePending
	case StatusApproved:
		return BadgeApproved
	case StatusDenied:
		return BadgeDenied
	case StatusOK, StatusExpiring, StatusOverdue:
	default:
		return BadgeOK
	}

	badge := BadgeOK
	if remaining != nil {
		if *remaining <= 0 {
			badge = BadgeOverdue
		} else if *remaining <= lowStock {
			badge = BadgeExpiring
		}
	}

	if days := DaysUntil(refillBy, today); days != nil {
		if *days < 0 {
			badge = BadgeOverdue
		} else if *days <= soonThreshold && badge.Tone != ToneRed {
			badge = BadgeExpiring
		}
	}
	return badge
}

// DaysUntil es la diferencia en días calendario entre refillBy y today,
// ambos llevados a medianoche en la zona de today. nil si no hay fecha.
func DaysUntil(refillBy *time.Time, today time.Time) *int {
	if refillBy == nil || refillBy.IsZero() {
		return nil
	}
	loc := today.Location()
	y, m, d := refillBy.Date()
	target := time.Date(y, m, d, 0, 0, 0, 0, loc)
	y, m, d = today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)

	days := int(math.Ceil(float64(target.Sub(start)) / float64(24*time.Hour)))
	return &days
}
