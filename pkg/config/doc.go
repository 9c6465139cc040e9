// Package config defines the router configuration file format and its
// loading pipeline: parse YAML, apply defaults, overlay environment
// variables, then validate.
package config
