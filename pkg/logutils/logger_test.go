package logutils

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/beacon/internal/core/logging"
)

func TestNew_WritesJSONWithContextFields(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "beacon.log")

	logger, closer, err := New("debug", file)
	require.NoError(t, err)

	ctx := logging.WithNotificationID(context.Background(), 9)
	logger.Info().Ctx(ctx).Msg("dismissed")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "dismissed", entry["message"])
	assert.EqualValues(t, 9, entry["notification_id"])
	assert.Contains(t, entry, "time")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("chatty", "")
	assert.Error(t, err)
}
