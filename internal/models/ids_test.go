package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain uuid", in: "0b6f7a1e-6c2d-4d4e-9a55-6f4c1e0e2f10", want: "0b6f7a1e-6c2d-4d4e-9a55-6f4c1e0e2f10"},
		{name: "upper case uuid", in: "0B6F7A1E-6C2D-4D4E-9A55-6F4C1E0E2F10", want: "0b6f7a1e-6c2d-4d4e-9a55-6f4c1e0e2f10"},
		{name: "braced uuid", in: "{0b6f7a1e-6c2d-4d4e-9a55-6f4c1e0e2f10}", want: "0b6f7a1e-6c2d-4d4e-9a55-6f4c1e0e2f10"},
		{name: "padded opaque id", in: "  v1 ", want: "v1"},
		{name: "object id stays as is", in: "602c0182b04cd012031f9e5a", want: "602c0182b04cd012031f9e5a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalID(tt.in))
		})
	}
}

func TestSameID(t *testing.T) {
	assert.True(t, SameID("urn:uuid:0b6f7a1e-6c2d-4d4e-9a55-6f4c1e0e2f10", "0B6F7A1E-6C2D-4D4E-9A55-6F4C1E0E2F10"))
	assert.False(t, SameID("v1", "v2"))
}

func TestFlexibleIDUnmarshal(t *testing.T) {
	var payload struct {
		VideoID FlexibleID `json:"videoId"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"videoId":" v1 "}`), &payload))
	assert.Equal(t, "v1", payload.VideoID.String())

	require.NoError(t, json.Unmarshal([]byte(`{"videoId":42}`), &payload))
	assert.Equal(t, "42", payload.VideoID.String())

	require.NoError(t, json.Unmarshal([]byte(`{"videoId":null}`), &payload))
	assert.Empty(t, payload.VideoID.String())

	assert.Error(t, json.Unmarshal([]byte(`{"videoId":{"$oid":"x"}}`), &payload))
}
