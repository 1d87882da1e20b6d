// Package recordstore provides the structured half of rentbook's dual-store
// persistence layer: one JSON document per collection key, stored in Redis.
//
// # Overview
//
// Every domain collection (properties, tenants, transactions, documents, the
// owner profile, reminders) is persisted as a single JSON value under a
// well-known key. Reads and writes are whole-value: a write replaces the
// stored document entirely, and a read returns a snapshot the caller is free
// to mutate before writing back.
//
// # Change notification
//
// Each write publishes a change event on a per-namespace Pub/Sub channel.
// Subscriptions deliver events produced by *other* store instances only;
// a store never hears its own writes back (self-writes are observed through
// the synchronous read path). This is how two rentbook processes pointed at
// the same Redis stay in sync.
//
// # Failure semantics
//
// The store is deliberately forgiving: a missing or unparsable stored value
// reads as the caller-supplied default, and a failed write is logged rather
// than surfaced; the in-process cache still reflects the attempted write, so
// subsequent reads in the same process observe it. Durability may lag the
// cache after a medium failure; that drift is an accepted property of the
// design, not an error the caller is expected to handle.
//
// # Redis schema
//
// Record values:  rentbook:{namespace}:record:{key}
// Change events:  rentbook:{namespace}:record_events
//
// All keys and channels are namespaced so multiple rentbook data sets can
// coexist on one Redis server.
package recordstore
