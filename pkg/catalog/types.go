package catalog

import "fmt"

// Key identifies one routable model within one provider.
type Key struct {
	Provider string
	Model    string
}

// String returns the canonical "provider/model" form used in logs and metrics.
func (k Key) String() string {
	return k.Provider + "/" + k.Model
}

// Descriptor describes a single routable model: who serves it, what it costs
// and how fast it typically responds. Cost is expressed in USD per 1K tokens
// and latency as an average in milliseconds.
type Descriptor struct {
	Provider         string  `yaml:"provider" json:"provider"`
	Model            string  `yaml:"model" json:"model"`
	CostPer1KTokens  float64 `yaml:"cost_per_1k_tokens" json:"cost_per_1k_tokens"`
	AvgLatencyMs     int     `yaml:"avg_latency_ms" json:"avg_latency_ms"`
	MaxContextTokens int     `yaml:"max_context_tokens,omitempty" json:"max_context_tokens,omitempty"`
}

// Key returns the identity of the descriptor.
func (d Descriptor) Key() Key {
	return Key{Provider: d.Provider, Model: d.Model}
}

// Validate checks that the descriptor is usable for routing.
func (d Descriptor) Validate() error {
	if d.Provider == "" {
		return fmt.Errorf("catalog entry missing provider")
	}
	if d.Model == "" {
		return fmt.Errorf("catalog entry %q missing model", d.Provider)
	}
	if d.CostPer1KTokens < 0 {
		return fmt.Errorf("catalog entry %s has negative cost", d.Key())
	}
	if d.AvgLatencyMs < 0 {
		return fmt.Errorf("catalog entry %s has negative latency", d.Key())
	}
	return nil
}
