// Package hmap implements an open-addressed, Robin-Hood hashed multimap
// with tombstone deletion, parametric key extraction and load-factor
// driven growth.
//
// A Map stores references to caller-owned objects rather than copies:
// the caller supplies a hash function and an equality function over a
// key view extracted from each object, and the map never allocates or
// frees the objects it holds. Multiple objects may share the same key;
// Lookup returns an iterator over every live match.
//
// The bucket array is sized as a power of two and grows (doubles) on
// an Insert that finds Count already at or above the load-factor
// threshold. Growth is one-way: there is no shrink path.
//
// Deleted slots are marked with a tombstone rather than compacted by a
// backward shift, which keeps a resumable Lookup cursor valid across
// intervening Remove calls against other keys. An Insert may move
// existing entries (Robin-Hood displacement or growth), so a cursor is
// not guaranteed to stay valid across one.
package hmap
