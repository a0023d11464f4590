// Package burrow is a client library for Burrow, a queue service organizing
// messages into a two-level namespace of accounts, queues, and messages.
//
// # Architecture
//
// A [Client] is a single-threaded, cooperatively scheduled state machine. It
// accepts one [Command] at a time, drives a [Backend] through start ->
// wait-on-I/O -> ready -> finish transitions, surfaces file descriptors the
// backend wants to wait on to an external event loop (or polls them
// internally), and dispatches user callbacks in order, exactly once per
// command.
//
// Two backends ship with this module: an in-process, volatile store
// (package burrow/memory) and an HTTP/JSON client for a remote Burrow server
// (package burrow/httpclient). Backends register themselves by name via
// [Register]; additional backends may be registered at runtime.
//
// # Concurrency
//
// A Client is not safe for concurrent use by multiple goroutines. Two
// Clients may be used concurrently from two goroutines without interaction.
package burrow
