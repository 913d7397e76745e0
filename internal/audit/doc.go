// Package audit provides an optional SQLite-backed flow.EventSink: a
// durable trail of add/delete/modify events, not of table state. A nil
// *Sink is never required — flow.Table treats a nil EventSink as
// "don't record anything" — so wiring this package in is purely
// additive.
package audit
