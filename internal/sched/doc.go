// Package sched provides a minimal single-threaded cooperative
// scheduler satisfying flow.Scheduler and flow.YieldOracle: it drives
// registered tick functions in priority order, yielding once a fixed
// wall-clock time slice has elapsed on the current Run call.
//
// This is the reference "host scheduler" the flow table deliberately
// treats as an external collaborator; production deployments are
// expected to plug in their own event loop instead.
package sched
