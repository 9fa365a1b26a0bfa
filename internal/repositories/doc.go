// Package repositories implements SQLite persistence for users and sessions.
//
// Repositories handle CRUD operations with atomic sequence generation for
// human-readable user numbering. Users support soft deletes via deleted_at
// timestamps and are excluded from queries once deleted; sessions are
// hard-deleted on logout, revocation and expiry cleanup.
//
// Key Implementations:
//   - [UserRepository] : Account persistence with email lookups, admin listing filters and encrypted token storage
//   - [SessionRepository] : Session issuance, token lookups with expiry checks, per-user revocation
//
// Sequence numbers provide stable, human-readable ordering (user #42)
// independent of UUIDs and creation timestamps. The [NextSequence]
// function atomically increments per-table sequence counters in dedicated
// sequence tables.
package repositories
