package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	e := New("SUMMARY_FINALIZED", map[string]interface{}{"encounter_id": "abc", "version": 3})

	raw, err := Marshal(e)
	require.NoError(t, err)

	got, err := Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, "SUMMARY_FINALIZED", got.EventType())
	assert.Equal(t, "abc", got.Payload()["encounter_id"])
	assert.EqualValues(t, 3, got.Payload()["version"])
	assert.True(t, e.Timestamp().Equal(got.Timestamp()))
}

func TestUnmarshalRejectsBadEnvelopes(t *testing.T) {
	_, err := Unmarshal([]byte("not json"))
	assert.Error(t, err)

	_, err = Unmarshal([]byte(`{"data":{}}`))
	assert.Error(t, err)

	got, err := Unmarshal([]byte(`{"type":"X"}`))
	require.NoError(t, err)
	assert.NotNil(t, got.Data)
}
