package provider

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stackformgo/internal/state"
)

// Request carries everything a provider needs to reconcile one resource:
// its identity, the fully substituted argument values, and the recorded
// state from a previous apply (nil on first creation).
type Request struct {
	Type      string
	Name      string
	Arguments map[string]cty.Value
	Prior     *state.ResourceState
}

// Client is the external collaborator that owns provider API semantics.
// The engine invokes it once per resource, in dependency order, and
// records the returned attributes for later substitutions and outputs.
type Client interface {
	// CreateOrUpdate reconciles one resource and returns its full
	// post-apply attribute set: the declared arguments plus whatever the
	// provider computes (generated identifiers, ARNs, domain names).
	CreateOrUpdate(ctx context.Context, req *Request) (map[string]cty.Value, error)
}
