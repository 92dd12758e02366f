// Package referrals implements a candidate referral tracking service:
// account registration and JWT login, ownership scoped candidate CRUD, and
// resume uploads backed by an object store.
//
// Candidate lifecycle:
//   - Candidates carry a Status field that is persisted via Bun. Statuses
//     move from Pending through Reviewed to Hired; any status can be set at
//     any time by the referrer who owns the record.
//   - Every read and mutation of a candidate goes through the repository's
//     FindOwned primitive, so records belonging to another referrer are
//     indistinguishable from records that do not exist.
//
// Authentication:
//   - Auther mints 7 day HS256 tokens whose uid claim carries the user id.
//     The jwtware middleware validates them and propagates the caller's id
//     through the request context.
package referrals
