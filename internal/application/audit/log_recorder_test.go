package audit_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenders-api/internal/application/audit"
)

func TestLogRecorder_EmiteEventoEstructurado(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	rec := audit.NewLogRecorder(log, 8)
	rec.Record(audit.Event{
		TenantID:    "t-1",
		ActorUserID: "u-1",
		Action:      audit.ActionTransition,
		Resource:    "tender",
		ResourceID:  "td-1",
		OldValues:   map[string]any{"status": "SCRAPED"},
		NewValues:   map[string]any{"status": "VALIDATED"},
	})
	rec.Close() // drena antes de inspeccionar

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line, "debe emitirse una línea de auditoría")

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &got))
	assert.Equal(t, "t-1", got["tenant_id"])
	assert.Equal(t, "u-1", got["actor_user_id"])
	assert.Equal(t, "TRANSITION", got["action"])
	assert.Equal(t, "tender", got["resource"])
	assert.Equal(t, "td-1", got["resource_id"])
	assert.Equal(t, map[string]any{"status": "VALIDATED"}, got["new_values"])
}

func TestLogRecorder_BufferLlenoNoBloquea(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	// Buffer de 1 y sin consumir todavía: el segundo Record no debe bloquear.
	rec := audit.NewLogRecorder(log, 1)
	for i := 0; i < 50; i++ {
		rec.Record(audit.Event{Action: audit.ActionUpdate, Resource: "tender", ResourceID: "td-1"})
	}
	rec.Close()
	// No hay nada que asertar más allá de que terminamos sin deadlock.
}

func TestNopRecorder(t *testing.T) {
	var r audit.Recorder = audit.NopRecorder{}
	r.Record(audit.Event{Action: audit.ActionCreate})
}
