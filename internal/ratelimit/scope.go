package ratelimit

import "github.com/danielgtaylor/huma/v2"

// MetadataKey is the key used to store admission config in operation metadata.
const MetadataKey = "admission"

// EndpointConfig defines per-endpoint admission configuration.
// This can be attached to Huma operations via the Metadata field.
type EndpointConfig struct {
	// Disabled lets requests to this endpoint bypass the gate entirely.
	Disabled bool
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
