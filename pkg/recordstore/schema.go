package recordstore

import "fmt"

// Redis key pattern helpers
//
// Key pattern: rentbook:{namespace}:record:{key}
// Channel pattern: rentbook:{namespace}:record_events

// Well-known collection keys. Array-valued collections except KeyOwner and
// KeyTheme, which hold a single object and a bare string respectively.
const (
	KeyProperties   = "properties"
	KeyTransactions = "transactions"
	KeyDocuments    = "documents"
	KeyTenants      = "tenants"
	KeyOwner        = "owner"
	KeyReminders    = "reminders"
	KeyTheme        = "theme"
)

// AllKeys returns every well-known collection key. Used by reset to clear the
// whole data set one key at a time.
func AllKeys() []string {
	return []string{
		KeyProperties,
		KeyTransactions,
		KeyDocuments,
		KeyTenants,
		KeyOwner,
		KeyReminders,
		KeyTheme,
	}
}

// RecordKey returns the Redis key holding the JSON document for a collection.
// Pattern: rentbook:{namespace}:record:{key}
func RecordKey(namespace, key string) string {
	return fmt.Sprintf("rentbook:%s:record:%s", namespace, key)
}

// EventsChannel returns the Pub/Sub channel name for record change events.
// Pattern: rentbook:{namespace}:record_events
func EventsChannel(namespace string) string {
	return fmt.Sprintf("rentbook:%s:record_events", namespace)
}
