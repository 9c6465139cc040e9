// Package usage records per-reply token consumption and cost. Emission is
// best-effort: the chat path hands a record to the emitter and moves on, and
// sink failures are logged but never surface to the caller.
package usage
