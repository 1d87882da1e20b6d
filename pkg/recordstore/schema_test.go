package recordstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordKey(t *testing.T) {
	assert.Equal(t, "rentbook:home:record:properties", RecordKey("home", KeyProperties))
	assert.Equal(t, "rentbook:home:record:owner", RecordKey("home", KeyOwner))
}

func TestEventsChannel(t *testing.T) {
	assert.Equal(t, "rentbook:home:record_events", EventsChannel("home"))
}

func TestAllKeys(t *testing.T) {
	keys := AllKeys()
	assert.Len(t, keys, 7)
	assert.Contains(t, keys, KeyProperties)
	assert.Contains(t, keys, KeyTheme)

	// Namespaced keys must be distinct per collection.
	seen := make(map[string]bool)
	for _, k := range keys {
		seen[RecordKey("ns", k)] = true
	}
	assert.Len(t, seen, len(keys))
}
