package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutputIncludesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{
		Level:      LevelDebug,
		Component:  "test",
		JSONFormat: true,
		Output:     &buf,
	})

	log.Info("meeting processed",
		F("meeting_id", int64(42)),
		F("tasks_created", 3))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "meeting processed", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, float64(42), entry["meeting_id"])
	assert.Equal(t, float64(3), entry["tasks_created"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{
		Level:      LevelWarn,
		JSONFormat: true,
		Output:     &buf,
	})

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestWithAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{
		Level:      LevelInfo,
		JSONFormat: true,
		Output:     &buf,
	})

	runLog := log.With(F("run_id", "abc-123"))
	runLog.Info("started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc-123", entry["run_id"])
}

func TestErrField(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{
		Level:      LevelInfo,
		JSONFormat: true,
		Output:     &buf,
	})

	log.Error("failed", Err(errors.New("boom")))

	assert.Contains(t, buf.String(), "boom")
}

func TestNopLoggerIsSilent(t *testing.T) {
	log := NewNopLogger()
	// Must not panic and must not emit anywhere observable.
	log.Info("quiet", F("k", "v"))
	log.With(F("k", "v")).Error("still quiet")
}
