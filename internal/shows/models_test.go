package shows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatMapValue(t *testing.T) {
	value, err := SeatMap{"A1": "user-1"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"A1":"user-1"}`, string(value.([]byte)))

	// A nil map must serialize as an empty object, never SQL NULL
	value, err = SeatMap(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(value.([]byte)))
}

func TestSeatMapScan(t *testing.T) {
	var fromBytes SeatMap
	require.NoError(t, fromBytes.Scan([]byte(`{"B2":"user-7"}`)))
	assert.Equal(t, SeatMap{"B2": "user-7"}, fromBytes)

	var fromString SeatMap
	require.NoError(t, fromString.Scan(`{"C1":"user-2"}`))
	assert.Equal(t, SeatMap{"C1": "user-2"}, fromString)

	var fromNil SeatMap
	require.NoError(t, fromNil.Scan(nil))
	assert.NotNil(t, fromNil)
	assert.Empty(t, fromNil)

	var fromInt SeatMap
	assert.Error(t, fromInt.Scan(42))
}
