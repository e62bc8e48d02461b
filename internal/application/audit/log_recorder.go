package audit

import (
	"sync"

	"github.com/rs/zerolog"
)

// LogRecorder publica eventos de auditoría como líneas JSON estructuradas vía
// zerolog, desacoplado de la transacción que los origina: los eventos entran a
// un canal con buffer y un goroutine los drena. Si el buffer se llena, el
// evento se descarta con un warn en vez de bloquear la mutación.
type LogRecorder struct {
	log    zerolog.Logger
	events chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

// NewLogRecorder construye el recorder y arranca el goroutine de drenaje.
// bufferSize <= 0 usa 256.
func NewLogRecorder(log zerolog.Logger, bufferSize int) *LogRecorder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	r := &LogRecorder{
		log:    log.With().Str("component", "audit").Logger(),
		events: make(chan Event, bufferSize),
	}
	r.wg.Add(1)
	go r.drain()
	return r
}

// Record encola el evento sin bloquear. Con el buffer lleno, descarta y avisa.
func (r *LogRecorder) Record(event Event) {
	select {
	case r.events <- event:
	default:
		r.log.Warn().
			Str("action", event.Action).
			Str("resource_id", event.ResourceID).
			Msg("buffer de auditoría lleno, evento descartado")
	}
}

// Close cierra el canal y espera a que se drenen los eventos pendientes.
func (r *LogRecorder) Close() {
	r.once.Do(func() {
		close(r.events)
	})
	r.wg.Wait()
}

func (r *LogRecorder) drain() {
	defer r.wg.Done()
	for ev := range r.events {
		e := r.log.Info().
			Str("tenant_id", ev.TenantID).
			Str("actor_user_id", ev.ActorUserID).
			Str("action", ev.Action).
			Str("resource", ev.Resource).
			Str("resource_id", ev.ResourceID)
		if ev.OldValues != nil {
			e = e.Interface("old_values", ev.OldValues)
		}
		if ev.NewValues != nil {
			e = e.Interface("new_values", ev.NewValues)
		}
		if ev.Metadata != nil {
			e = e.Interface("metadata", ev.Metadata)
		}
		e.Msg("audit")
	}
}
