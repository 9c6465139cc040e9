// Package catalog holds the registry of provider models available to the
// router. Each entry describes one (provider, model) pair together with its
// pricing and latency characteristics. The catalog preserves insertion order
// so that selection can break ties deterministically.
package catalog
