package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventType_Valid(t *testing.T) {
	for _, et := range EventTypes {
		assert.True(t, et.Valid(), "expected %s to be valid", et)
	}

	assert.False(t, EventType("checkout").Valid())
	assert.False(t, EventType("").Valid())
	assert.False(t, EventType("Page_View").Valid())
}

func TestParseEventType(t *testing.T) {
	et, err := ParseEventType("add_to_cart")
	assert.NoError(t, err)
	assert.Equal(t, EventAddToCart, et)

	_, err = ParseEventType("refund")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestTimeWindow_Contains(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)
	w := TimeWindow{Start: start, End: end}

	assert.True(t, w.Contains(start))
	assert.True(t, w.Contains(end))
	assert.True(t, w.Contains(start.Add(12*time.Hour)))
	assert.False(t, w.Contains(start.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(end.Add(time.Nanosecond)))
}
