package optional

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holder struct {
	Due Value[time.Time] `json:"due"`
}

func TestValue_JSONAbsentIsNull(t *testing.T) {
	out, err := json.Marshal(holder{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":null}`, string(out))

	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"due":null}`), &h))
	assert.False(t, h.Due.IsSet)
}

func TestValue_JSONPresent(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	out, err := json.Marshal(holder{Due: Some(due)})
	require.NoError(t, err)

	var h holder
	require.NoError(t, json.Unmarshal(out, &h))
	got, ok := h.Due.Get()
	require.True(t, ok)
	assert.True(t, got.Equal(due))
}

func TestValue_UnwrapOr(t *testing.T) {
	assert.Equal(t, 3, None[int]().UnwrapOr(3))
	assert.Equal(t, 7, Some(7).UnwrapOr(3))
	assert.Equal(t, "", None[int]().String())
}
