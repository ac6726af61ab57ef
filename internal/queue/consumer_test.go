package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/handwash-service/internal/model"
)

func TestHandleMessageAppendsAuditLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	for i, status := range []string{"pass", "fail"} {
		ev := NewObservationRecordedEvent(model.Observation{
			ID:        int64(i + 1),
			Status:    status,
			Moment:    "before-meal",
			Method:    "soap",
			Quality:   "good",
			Evaluator: "nurse1",
			Timestamp: "2025-01-01T08:00:00.000Z",
		}, "2025-01-01T08:00:01.000Z")
		body, err := json.Marshal(ev)
		require.NoError(t, err)
		require.NoError(t, HandleMessage(dir, body))
	}

	raw, err := os.ReadFile(filepath.Join(dir, AuditLogName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `[2025-01-01T08:00:01.000Z] Observation recorded | id=1 | status="pass" | moment="before-meal" | method="soap" | quality="good" | evaluator="nurse1" | timestamp=2025-01-01T08:00:00.000Z`, lines[0])
	assert.Contains(t, lines[1], `id=2 | status="fail"`)
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	err := HandleMessage(t.TempDir(), []byte("not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}
