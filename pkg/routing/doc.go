// Package routing decides which provider model serves each chat request and
// drives bounded failover when the chosen one fails. Selection reads the
// catalog and the health tracker; the coordinator invokes adapters, feeds
// results back into health state, and emits usage for successful replies.
package routing
