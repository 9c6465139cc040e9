// Package health implements per-model circuit breaking for the router.
// Every (provider, model) pair carries an independent failure counter and
// status. Consecutive failures trip the breaker, a cooldown lets it half-open
// back into degraded service, and one success closes it fully.
package health
