package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDurationField(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{name: "empty", raw: "", want: 0},
		{name: "seconds", raw: "5s", want: 5 * time.Second},
		{name: "trimmed", raw: "  250ms ", want: 250 * time.Millisecond},
		{name: "negative", raw: "-1s", wantErr: true},
		{name: "garbage", raw: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDurationField("overlay.default_duration", tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "overlay.default_duration")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDuration_YAML(t *testing.T) {
	var out struct {
		D Duration `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("d: 1m30s\n"), &out))
	assert.Equal(t, 90*time.Second, out.D.Std())

	err := yaml.Unmarshal([]byte("d: nope\n"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestDuration_JSON(t *testing.T) {
	var out struct {
		D Duration `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2s"}`), &out))
	assert.Equal(t, 2*time.Second, out.D.Std())

	bits, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2s"}`, string(bits))

	assert.Error(t, json.Unmarshal([]byte(`{"d":5}`), &out))
}
