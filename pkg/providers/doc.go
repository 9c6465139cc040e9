// Package providers defines the vendor adapter contract and the shared
// request, response and error types the router exchanges with adapters.
// Concrete adapters live in subpackages (openai, anthropic).
package providers
