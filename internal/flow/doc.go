// Package flow implements the flow table: a bounded pool of flow
// entries layered over three hmap.Map indexes (by ID, by priority, by
// exact-match key), an all-entries list, a free list, a query engine
// and a cooperative chunked iteration task.
//
// Flow Table is single-owner: it performs no internal synchronization
// and callers must serialize their own access to a given instance.
package flow
