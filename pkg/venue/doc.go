// Package venue defines the persisted venue layout document: the room
// outline, the tables drawn on it and the seats each table owns.
//
// # Core Types
//
//   - [Layout]: one floor plan, owned by a user, optionally public
//   - [Table]: a rectangle or circle table; a tagged union on [Table.Kind]
//   - [Seat]: an assignable position, relative to its table's center
//   - [Shape]: the room outline polygon
//   - [Patch]: a partial metadata update (merge semantics)
//
// # Tables and Seats
//
// Seats are generated once from the table's capacity by
// [geometry.GenerateSeats]. Seat ids derive from the table id and seat
// index ("<table>-s<n>"), so they survive export/import round trips and
// resizing. [Table.Resize] regenerates seat positions for the new
// dimensions while keeping the same ids, so assignments made against the
// table stay valid.
//
// # Validation
//
// [Layout.Validate] enforces the invariants a layout must satisfy before it
// is written: a non-empty name, capacities >= 0 with exactly one seat per
// unit of capacity, kind-specific dimensions present only on the matching
// variant, unique ids, and an outline that is either empty or closed
// (three points or more). Failures carry [errors.ErrCodeValidation].
//
// # Files
//
// Layouts can be described in TOML for hand editing and imported with
// [ReadTOML]; seats are generated during import. [WriteJSON]/[ReadJSON]
// carry the complete document.
package venue
