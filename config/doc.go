// Package config loads orchestrator configuration with the precedence
// defaults → YAML file → environment variables (HANDOFF_ prefix).
package config
