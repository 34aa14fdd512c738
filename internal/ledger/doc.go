// Package ledger implements the TruthLedger engine: a shared,
// append-only registry of articles, revisions, votes, user profiles and
// HASH balances.
//
// Every external action is a single atomic operation with an explicit
// caller identity. The engine validates preconditions in a fixed order
// (id validity, authorization, state validity, resource sufficiency),
// mutates the affected tables, appends exactly one audit event and
// returns either a result or a typed rejection. No operation partially
// applies.
//
// The engine assumes one logical writer at a time; a single RWMutex
// serializes writes while allowing concurrent reads of the last
// committed state. Persistence is the host's concern: the event stream
// exposed by Events and EventsSince is the integration point for
// durable sinks and indexers.
package ledger
