// Package pulse is a push-based stream combinator engine.
//
// A Stream is a producer of pulses: calling Receive registers a callback
// and returns a cancellable Receipt. Under every live stream sits a
// Registry, the ordered fan-out broadcaster: a producer pushes a pulse in,
// the registry synchronously invokes every registered receiver in
// registration order. Combinators (Map, Filter, Merge, Zip, Combine,
// Flatten, ...) are themselves streams that compose an upstream's Receive;
// they never touch registry bookkeeping directly.
//
// The main components include:
//
//   - Receipt: a cancellation handle; idempotent, optionally composite
//   - Registry: ordered receiver set with bounded reentrancy and a pluggable lock
//   - Emitter: a Registry-backed stream you can push pulses into
//   - Stream / Channel: the subscription surface, a Channel also carries a typed source handle
//   - stateless combinators: Map, Filter, Merge, Either, OneOf, Zip, Combine, Concat, Flatten
//   - effect phases: Reduce, Enumerate, Partition, Accumulate, Buffer, Drop — one shared accumulator per phase
//
// Dispatch is synchronous and scheduler-agnostic: a pulse's full downstream
// fan-out completes before the producing Emit returns. Anything that needs
// a thread hop (timers, queues, sockets) lives in adapter packages layered
// on top of the Receive contract.
package pulse
