package providers

import "context"

// ChatProvider is implemented by every vendor adapter. GenerateReply makes
// exactly one logical invocation: adapters may walk an internal model chain,
// but they never retry across providers. Cross-provider failover belongs to
// the routing layer.
type ChatProvider interface {
	// Name returns the stable provider identifier used in catalog keys,
	// logs and metrics.
	Name() string

	// GenerateReply produces one completion for the request. The returned
	// Reply always names the model that actually served it.
	GenerateReply(ctx context.Context, req *ReplyRequest) (*Reply, error)

	// Close releases the adapter's connections.
	Close() error
}
