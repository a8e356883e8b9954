package local

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stackformgo/internal/ctxlog"
	"github.com/vk/stackformgo/internal/provider"
)

// The simulated provider pins a single account and region; every generated
// ARN and endpoint is derived from these.
const (
	accountID = "123456789012"
	region    = "us-east-1"
)

// Client is a self-contained provider that reconciles resources entirely
// in memory, generating deterministic attributes of the same shape a real
// cloud provider would report. It backs the default CLI mode and the test
// suite; real provider API semantics stay out of the engine.
type Client struct {
	registry *provider.Registry
}

// NewClient builds a local client with a handler registered for every
// resource type the image-pipeline stack declares.
func NewClient() *Client {
	r := provider.NewRegistry()
	r.Register("aws_s3_bucket", createBucket)
	r.Register("aws_s3_bucket_public_access_block", createBucketPublicAccessBlock)
	r.Register("aws_s3_bucket_policy", createBucketPolicy)
	r.Register("aws_s3_bucket_notification", createBucketNotification)
	r.Register("aws_sqs_queue", createQueue)
	r.Register("aws_sqs_queue_policy", createQueuePolicy)
	r.Register("aws_iam_role", createRole)
	r.Register("aws_iam_role_policy", createRolePolicy)
	r.Register("aws_lambda_function", createFunction)
	r.Register("aws_lambda_permission", createFunctionPermission)
	r.Register("aws_lambda_event_source_mapping", createEventSourceMapping)
	r.Register("aws_cloudfront_distribution", createDistribution)
	return &Client{registry: r}
}

// Types returns the resource types this client can reconcile.
func (c *Client) Types() []string {
	return c.registry.Types()
}

// CreateOrUpdate implements provider.Client.
func (c *Client) CreateOrUpdate(ctx context.Context, req *provider.Request) (map[string]cty.Value, error) {
	logger := ctxlog.FromContext(ctx).With("type", req.Type, "name", req.Name)

	fn, ok := c.registry.Handler(req.Type)
	if !ok {
		return nil, fmt.Errorf("unsupported resource type %q", req.Type)
	}

	verb := "create"
	if req.Prior != nil {
		verb = "update"
	}
	logger.Debug("Reconciling resource.", "action", verb)

	attrs, err := fn(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resource reconciled.", "attribute_count", len(attrs))
	return attrs, nil
}

// baseAttrs seeds a handler's result with a copy of the declared
// arguments; handlers then add their computed attributes on top.
func baseAttrs(req *provider.Request) map[string]cty.Value {
	attrs := make(map[string]cty.Value, len(req.Arguments)+4)
	for k, v := range req.Arguments {
		attrs[k] = v
	}
	return attrs
}

// strArg returns a string-typed argument value, or "" when absent.
func strArg(req *provider.Request, name string) string {
	v, ok := req.Arguments[name]
	if !ok || v.IsNull() || !v.Type().Equals(cty.String) {
		return ""
	}
	return v.AsString()
}

// requireStrArg is strArg for arguments a handler cannot work without.
func requireStrArg(req *provider.Request, name string) (string, error) {
	v := strArg(req, name)
	if v == "" {
		return "", fmt.Errorf("%s.%s: missing required argument %q", req.Type, req.Name, name)
	}
	return v, nil
}

// stableString returns the prior value of a generated attribute when one
// exists, so identifiers survive updates; otherwise it runs gen once.
func stableString(req *provider.Request, key string, gen func() string) string {
	if req.Prior != nil {
		if prior, ok := req.Prior.Attributes[key].(string); ok && prior != "" {
			return prior
		}
	}
	return gen()
}
