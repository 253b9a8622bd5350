package store

import (
	"bytes"
	"context"
	"time"
)

// ListFunc devuelve el estado actual de una colección filtrada.
type ListFunc func(ctx context.Context) ([]Document, error)

// Poll convierte un backend sin push en una suscripción: consulta cada
// interval y emite un Snapshot sólo cuando el contenido cambia (o cambia
// el error). El primer snapshot siempre se emite.
func Poll(ctx context.Context, interval time.Duration, list ListFunc) <-chan Snapshot {
	out := make(chan Snapshot, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last []byte
		var lastErr string
		first := true

		for {
			docs, err := list(ctx)
			if ctx.Err() != nil {
				return
			}

			var snap *Snapshot
			switch {
			case err != nil:
				if err.Error() != lastErr {
					lastErr = err.Error()
					snap = &Snapshot{Err: err}
				}
			default:
				lastErr = ""
				fp := fingerprint(docs)
				if first || !bytes.Equal(fp, last) {
					last = fp
					first = false
					snap = &Snapshot{Documents: docs}
				}
			}

			if snap != nil {
				select {
				case out <- *snap:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func fingerprint(docs []Document) []byte {
	var buf bytes.Buffer
	for _, d := range docs {
		buf.WriteString(d.ID)
		buf.WriteByte(0)
		buf.Write(d.Data)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}
