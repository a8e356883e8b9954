package executor

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stackformgo/internal/config"
	"github.com/vk/stackformgo/internal/dag"
	"github.com/vk/stackformgo/internal/provider"
	"github.com/vk/stackformgo/internal/state"
)

// fakeClient records apply requests in order and fails on demand.
type fakeClient struct {
	mu       sync.Mutex
	requests []*provider.Request
	failOn   map[string]error
}

func newFakeClient() *fakeClient {
	return &fakeClient{failOn: make(map[string]error)}
}

func (c *fakeClient) CreateOrUpdate(_ context.Context, req *provider.Request) (map[string]cty.Value, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()

	address := req.Type + "." + req.Name
	if err := c.failOn[address]; err != nil {
		return nil, err
	}

	attrs := make(map[string]cty.Value, len(req.Arguments)+2)
	for name, val := range req.Arguments {
		attrs[name] = val
	}
	attrs["id"] = cty.StringVal(address + "-id")
	attrs["arn"] = cty.StringVal("arn:aws:fake:::" + address)
	return attrs, nil
}

func (c *fakeClient) applied() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	addresses := make([]string, 0, len(c.requests))
	for _, req := range c.requests {
		addresses = append(addresses, req.Type+"."+req.Name)
	}
	return addresses
}

func (c *fakeClient) request(address string) *provider.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, req := range c.requests {
		if req.Type+"."+req.Name == address {
			return req
		}
	}
	return nil
}

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), diags.Error())
	return expr
}

func declare(t *testing.T, resType, name string, declIndex int, args map[string]string, dependsOn ...string) *config.Resource {
	t.Helper()
	arguments := make(map[string]hcl.Expression, len(args))
	for argName, src := range args {
		arguments[argName] = parseExpr(t, src)
	}
	return &config.Resource{
		Type:      resType,
		Name:      name,
		Arguments: arguments,
		DependsOn: dependsOn,
		DeclIndex: declIndex,
	}
}

func buildExecutor(t *testing.T, client provider.Client, snapshot *state.Snapshot, stack *config.Stack) *Executor {
	t.Helper()
	graph, err := dag.Build(context.Background(), stack)
	require.NoError(t, err)
	if snapshot == nil {
		snapshot = state.NewSnapshot()
	}
	exec, err := New(graph, client, snapshot, 1, t.TempDir())
	require.NoError(t, err)
	return exec
}

func statusOf(t *testing.T, exec *Executor, id string) Status {
	t.Helper()
	for _, rs := range exec.Statuses() {
		if rs.ID == id {
			return rs.Status
		}
	}
	t.Fatalf("no status recorded for %s", id)
	return ""
}

func TestRun_AppliesInDependencyOrder(t *testing.T) {
	client := newFakeClient()
	exec := buildExecutor(t, client, nil, &config.Stack{
		Resources: []*config.Resource{
			declare(t, "aws_s3_bucket", "images", 0, map[string]string{"bucket": `"images"`}),
			declare(t, "aws_sqs_queue", "jobs", 1, map[string]string{"name": `"jobs"`}),
			declare(t, "aws_sqs_queue_policy", "allow", 2, map[string]string{
				"queue_url": "resource.aws_sqs_queue.jobs.url",
				"policy":    `"{}"`,
			}),
			declare(t, "aws_s3_bucket_notification", "uploads", 3,
				map[string]string{
					"bucket":    "resource.aws_s3_bucket.images.id",
					"queue_arn": "resource.aws_sqs_queue.jobs.arn",
				},
				"aws_sqs_queue_policy.allow"),
		},
	})

	require.NoError(t, exec.Run(context.Background()))

	applied := client.applied()
	require.Len(t, applied, 4)
	positions := make(map[string]int, len(applied))
	for i, address := range applied {
		positions[address] = i
	}
	assert.Less(t, positions["aws_sqs_queue.jobs"], positions["aws_sqs_queue_policy.allow"])
	assert.Less(t, positions["aws_sqs_queue_policy.allow"], positions["aws_s3_bucket_notification.uploads"])
	assert.Less(t, positions["aws_s3_bucket.images"], positions["aws_s3_bucket_notification.uploads"])

	for _, rs := range exec.Statuses() {
		assert.Equal(t, StatusApplied, rs.Status)
	}
}

func TestRun_SubstitutesReferenceValues(t *testing.T) {
	client := newFakeClient()
	exec := buildExecutor(t, client, nil, &config.Stack{
		Resources: []*config.Resource{
			declare(t, "aws_sqs_queue", "jobs", 0, map[string]string{"name": `"jobs"`}),
			declare(t, "aws_sqs_queue_policy", "allow", 1, map[string]string{
				"queue_arn": "resource.aws_sqs_queue.jobs.arn",
			}),
		},
	})

	require.NoError(t, exec.Run(context.Background()))

	req := client.request("aws_sqs_queue_policy.allow")
	require.NotNil(t, req)
	assert.Equal(t, "arn:aws:fake:::aws_sqs_queue.jobs", req.Arguments["queue_arn"].AsString())
}

func TestRun_FailureSkipsDependentsButNotIndependents(t *testing.T) {
	client := newFakeClient()
	client.failOn["aws_iam_role.worker"] = fmt.Errorf("access denied")
	exec := buildExecutor(t, client, nil, &config.Stack{
		Resources: []*config.Resource{
			declare(t, "aws_iam_role", "worker", 0, map[string]string{"name": `"worker"`}),
			declare(t, "aws_s3_bucket", "images", 1, map[string]string{"bucket": `"images"`}),
			declare(t, "aws_lambda_function", "compressor", 2, map[string]string{
				"role": "resource.aws_iam_role.worker.arn",
			}),
			declare(t, "aws_lambda_event_source_mapping", "jobs", 3, map[string]string{
				"function_name": "resource.aws_lambda_function.compressor.id",
			}),
		},
	})

	err := exec.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource.aws_iam_role.worker")
	assert.Contains(t, err.Error(), "access denied")

	assert.Equal(t, StatusFailed, statusOf(t, exec, "resource.aws_iam_role.worker"))
	assert.Equal(t, StatusSkipped, statusOf(t, exec, "resource.aws_lambda_function.compressor"))
	assert.Equal(t, StatusSkipped, statusOf(t, exec, "resource.aws_lambda_event_source_mapping.jobs"))
	assert.Equal(t, StatusApplied, statusOf(t, exec, "resource.aws_s3_bucket.images"))

	applied := client.applied()
	assert.NotContains(t, applied, "aws_lambda_function.compressor")
	assert.NotContains(t, applied, "aws_lambda_event_source_mapping.jobs")
	assert.Contains(t, applied, "aws_s3_bucket.images")
}

func TestRun_FailureLeavesAppliedResourcesInState(t *testing.T) {
	client := newFakeClient()
	client.failOn["aws_sqs_queue_policy.allow"] = fmt.Errorf("malformed policy")
	snapshot := state.NewSnapshot()
	exec := buildExecutor(t, client, snapshot, &config.Stack{
		Resources: []*config.Resource{
			declare(t, "aws_sqs_queue", "jobs", 0, map[string]string{"name": `"jobs"`}),
			declare(t, "aws_sqs_queue_policy", "allow", 1, map[string]string{
				"queue_arn": "resource.aws_sqs_queue.jobs.arn",
			}),
		},
	})

	require.Error(t, exec.Run(context.Background()))

	recorded, found := snapshot.Resource("resource.aws_sqs_queue.jobs")
	require.True(t, found)
	assert.Equal(t, "jobs", recorded.Attributes["name"])
	_, found = snapshot.Resource("resource.aws_sqs_queue_policy.allow")
	assert.False(t, found)
}

func TestRun_ArgumentEvaluationErrorFailsResource(t *testing.T) {
	client := newFakeClient()
	exec := buildExecutor(t, client, nil, &config.Stack{
		Resources: []*config.Resource{
			declare(t, "aws_s3_bucket", "images", 0, map[string]string{
				"bucket": `undeclared_local.name`,
			}),
		},
	})

	err := exec.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusFailed, statusOf(t, exec, "resource.aws_s3_bucket.images"))
	assert.Empty(t, client.applied())
}

func TestRun_CanceledContextSkipsEverything(t *testing.T) {
	client := newFakeClient()
	exec := buildExecutor(t, client, nil, &config.Stack{
		Resources: []*config.Resource{
			declare(t, "aws_s3_bucket", "images", 0, map[string]string{"bucket": `"images"`}),
			declare(t, "aws_sqs_queue", "jobs", 1, map[string]string{"name": `"jobs"`}),
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, exec.Run(ctx), context.Canceled)

	assert.Equal(t, StatusSkipped, statusOf(t, exec, "resource.aws_s3_bucket.images"))
	assert.Equal(t, StatusSkipped, statusOf(t, exec, "resource.aws_sqs_queue.jobs"))
	assert.Empty(t, client.applied())
}

func TestRun_PassesPriorStateToProvider(t *testing.T) {
	client := newFakeClient()
	snapshot := state.NewSnapshot()
	snapshot.Put("resource.aws_s3_bucket.images", &state.ResourceState{
		Type:       "aws_s3_bucket",
		Name:       "images",
		Attributes: map[string]any{"id": "images", "arn": "arn:aws:s3:::images"},
	})
	exec := buildExecutor(t, client, snapshot, &config.Stack{
		Resources: []*config.Resource{
			declare(t, "aws_s3_bucket", "images", 0, map[string]string{"bucket": `"images"`}),
		},
	})

	require.NoError(t, exec.Run(context.Background()))

	req := client.request("aws_s3_bucket.images")
	require.NotNil(t, req)
	require.NotNil(t, req.Prior)
	assert.Equal(t, "arn:aws:s3:::images", req.Prior.Attributes["arn"])
}

func TestRun_ConcurrentWorkersStayConsistent(t *testing.T) {
	client := newFakeClient()
	resources := []*config.Resource{
		declare(t, "aws_iam_role", "worker", 0, map[string]string{"name": `"worker"`}),
	}
	for i := 0; i < 20; i++ {
		resources = append(resources, declare(t, "aws_iam_role_policy", fmt.Sprintf("p%02d", i), i+1,
			map[string]string{"role": "resource.aws_iam_role.worker.id"}))
	}
	graph, err := dag.Build(context.Background(), &config.Stack{Resources: resources})
	require.NoError(t, err)
	exec, err := New(graph, client, state.NewSnapshot(), 8, t.TempDir())
	require.NoError(t, err)

	require.NoError(t, exec.Run(context.Background()))
	assert.Len(t, client.applied(), 21)
	for _, rs := range exec.Statuses() {
		assert.Equal(t, StatusApplied, rs.Status)
	}
}

func TestComputeOutputs_ResolvesAppliedAttributes(t *testing.T) {
	client := newFakeClient()
	graph, err := dag.Build(context.Background(), &config.Stack{
		Resources: []*config.Resource{
			declare(t, "aws_sqs_queue", "jobs", 0, map[string]string{"name": `"jobs"`}),
		},
		Outputs: []*config.Output{
			{Name: "queue_arn", Value: parseExpr(t, "resource.aws_sqs_queue.jobs.arn")},
		},
	})
	require.NoError(t, err)
	exec, err := New(graph, client, state.NewSnapshot(), 1, t.TempDir())
	require.NoError(t, err)

	require.NoError(t, exec.Run(context.Background()))

	outputs, err := exec.ComputeOutputs(context.Background())
	require.NoError(t, err)
	require.Contains(t, outputs, "queue_arn")
	assert.Equal(t, "arn:aws:fake:::aws_sqs_queue.jobs", outputs["queue_arn"].AsString())
}

func TestComputeOutputs_FailedDependencyIsUnresolved(t *testing.T) {
	client := newFakeClient()
	client.failOn["aws_sqs_queue.jobs"] = fmt.Errorf("throttled")
	graph, err := dag.Build(context.Background(), &config.Stack{
		Resources: []*config.Resource{
			declare(t, "aws_sqs_queue", "jobs", 0, map[string]string{"name": `"jobs"`}),
			declare(t, "aws_s3_bucket", "images", 1, map[string]string{"bucket": `"images"`}),
		},
		Outputs: []*config.Output{
			{Name: "bucket_id", Value: parseExpr(t, "resource.aws_s3_bucket.images.id")},
			{Name: "queue_url", Value: parseExpr(t, "resource.aws_sqs_queue.jobs.url")},
		},
	})
	require.NoError(t, err)
	exec, err := New(graph, client, state.NewSnapshot(), 1, t.TempDir())
	require.NoError(t, err)

	require.Error(t, exec.Run(context.Background()))

	_, err = exec.ComputeOutputs(context.Background())
	var outErr *UnresolvedOutputError
	require.ErrorAs(t, err, &outErr)
	assert.Equal(t, "queue_url", outErr.Output)
	assert.Equal(t, "resource.aws_sqs_queue.jobs", outErr.Resource)
}

func TestStatuses_ReportedInApplyOrder(t *testing.T) {
	client := newFakeClient()
	exec := buildExecutor(t, client, nil, &config.Stack{
		Resources: []*config.Resource{
			declare(t, "aws_sqs_queue", "jobs", 0, map[string]string{"name": `"jobs"`}),
			declare(t, "aws_sqs_queue_policy", "allow", 1, map[string]string{
				"queue_arn": "resource.aws_sqs_queue.jobs.arn",
			}),
		},
	})

	require.NoError(t, exec.Run(context.Background()))

	statuses := exec.Statuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, "resource.aws_sqs_queue.jobs", statuses[0].ID)
	assert.Equal(t, "resource.aws_sqs_queue_policy.allow", statuses[1].ID)
}
