// Package ofmodel supplies a minimal, concrete implementation of the
// external collaborators flow.Table is built against: a fixed-size
// wildcardable match key, a small action list distilled to output
// ports, and the duplication/comparison capabilities the table needs
// but deliberately does not implement itself.
//
// Nothing in this package is required by the flow table's own
// invariants; it exists so cmd/flowtabled, cmd/flowctl and the
// integration tests have something concrete to drive.
package ofmodel
