// Package trace records what verdant is doing while it lints.
//
// Spans mark CLI commands, files, analysis phases and, at the debug level,
// single rule invocations. A tracer travels through the driver in a
// context.Context; the analyzer engine receives it through its options.
//
// # Usage
//
//	verdant lint --trace=- --trace-level=phase src/
//
// # Tracers
//
//   - Nop: does nothing, used when tracing is off
//   - StreamTracer: writes every event to a writer (text or NDJSON)
//   - RingTracer: keeps the last N events for a crash dump
//   - MultiTracer: fans events out to several tracers
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: crash dumps only
//   - LevelPhase: commands, files and engine phases
//   - LevelDebug: everything, rule invocations included
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePhase, "parse", parentID)
//	defer span.End("")
package trace
