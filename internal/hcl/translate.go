package hcl

import (
	"github.com/vk/stackformgo/internal/config"
	"github.com/vk/stackformgo/internal/schema"
)

// translateResource converts the HCL-specific resource schema into the
// agnostic model.
func (l *Loader) translateResource(r *schema.Resource) (*config.Resource, error) {
	args, err := l.extractBodyAttributes(r.Arguments)
	if err != nil {
		return nil, err
	}
	return &config.Resource{
		Type:      r.Type,
		Name:      r.Name,
		Arguments: args,
		DependsOn: r.DependsOn,
	}, nil
}

// translateOutput converts the HCL-specific output schema into the agnostic model.
func (l *Loader) translateOutput(o *schema.Output) *config.Output {
	return &config.Output{
		Name:        o.Name,
		Description: o.Description,
		Value:       o.Value,
	}
}
