package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stackformgo/internal/provider"
	"github.com/vk/stackformgo/internal/state"
)

func apply(t *testing.T, client *Client, resType, name string, args map[string]cty.Value, prior *state.ResourceState) map[string]cty.Value {
	t.Helper()
	attrs, err := client.CreateOrUpdate(context.Background(), &provider.Request{
		Type:      resType,
		Name:      name,
		Arguments: args,
		Prior:     prior,
	})
	require.NoError(t, err)
	return attrs
}

func TestCreateOrUpdate_UnsupportedType(t *testing.T) {
	_, err := NewClient().CreateOrUpdate(context.Background(), &provider.Request{
		Type: "aws_dynamodb_table",
		Name: "cache",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported resource type")
}

func TestCreateBucket(t *testing.T) {
	attrs := apply(t, NewClient(), "aws_s3_bucket", "images", map[string]cty.Value{
		"bucket": cty.StringVal("image-pipeline-images"),
	}, nil)

	assert.Equal(t, "image-pipeline-images", attrs["id"].AsString())
	assert.Equal(t, "arn:aws:s3:::image-pipeline-images", attrs["arn"].AsString())
	assert.Equal(t, "image-pipeline-images.s3.us-east-1.amazonaws.com",
		attrs["bucket_regional_domain_name"].AsString())
	assert.Equal(t, "image-pipeline-images", attrs["bucket"].AsString())
}

func TestCreateBucket_MissingName(t *testing.T) {
	_, err := NewClient().CreateOrUpdate(context.Background(), &provider.Request{
		Type: "aws_s3_bucket",
		Name: "images",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required argument "bucket"`)
}

func TestCreateQueue(t *testing.T) {
	attrs := apply(t, NewClient(), "aws_sqs_queue", "jobs", map[string]cty.Value{
		"name": cty.StringVal("image-pipeline-jobs"),
	}, nil)

	url := "https://sqs.us-east-1.amazonaws.com/123456789012/image-pipeline-jobs"
	assert.Equal(t, url, attrs["url"].AsString())
	assert.Equal(t, url, attrs["id"].AsString())
	assert.Equal(t, "arn:aws:sqs:us-east-1:123456789012:image-pipeline-jobs", attrs["arn"].AsString())
}

func TestCreateRole_UniqueIDStableAcrossUpdates(t *testing.T) {
	client := NewClient()
	args := map[string]cty.Value{
		"name":               cty.StringVal("pipeline-worker"),
		"assume_role_policy": cty.StringVal("{}"),
	}

	created := apply(t, client, "aws_iam_role", "worker", args, nil)
	uniqueID := created["unique_id"].AsString()
	assert.Regexp(t, `^AROA[0-9A-F]{17}$`, uniqueID)

	updated := apply(t, client, "aws_iam_role", "worker", args, &state.ResourceState{
		Type: "aws_iam_role",
		Name: "worker",
		Attributes: map[string]any{
			"unique_id": uniqueID,
		},
	})
	assert.Equal(t, uniqueID, updated["unique_id"].AsString())
}

func TestCreateFunction_VersionBumpsOnHashChange(t *testing.T) {
	client := NewClient()
	args := func(hash string) map[string]cty.Value {
		return map[string]cty.Value{
			"function_name":    cty.StringVal("image-compressor"),
			"role":             cty.StringVal("arn:aws:iam::123456789012:role/pipeline-worker"),
			"source_code_hash": cty.StringVal(hash),
		}
	}

	created := apply(t, client, "aws_lambda_function", "compressor", args("xxh64:aaaa"), nil)
	assert.Equal(t, "1", created["version"].AsString())
	assert.Equal(t, "arn:aws:lambda:us-east-1:123456789012:function:image-compressor",
		created["arn"].AsString())

	prior := &state.ResourceState{
		Type: "aws_lambda_function",
		Name: "compressor",
		Attributes: map[string]any{
			"version":          "1",
			"source_code_hash": "xxh64:aaaa",
		},
	}

	unchanged := apply(t, client, "aws_lambda_function", "compressor", args("xxh64:aaaa"), prior)
	assert.Equal(t, "1", unchanged["version"].AsString())

	changed := apply(t, client, "aws_lambda_function", "compressor", args("xxh64:bbbb"), prior)
	assert.Equal(t, "2", changed["version"].AsString())
}

func TestCreateEventSourceMapping_UUIDStableAcrossUpdates(t *testing.T) {
	client := NewClient()
	args := map[string]cty.Value{
		"event_source_arn": cty.StringVal("arn:aws:sqs:us-east-1:123456789012:jobs"),
		"function_name":    cty.StringVal("image-compressor"),
	}

	created := apply(t, client, "aws_lambda_event_source_mapping", "jobs", args, nil)
	mappingID := created["id"].AsString()
	assert.NotEmpty(t, mappingID)
	assert.Equal(t, mappingID, created["uuid"].AsString())
	assert.Equal(t, "Enabled", created["state"].AsString())

	updated := apply(t, client, "aws_lambda_event_source_mapping", "jobs", args, &state.ResourceState{
		Type: "aws_lambda_event_source_mapping",
		Name: "jobs",
		Attributes: map[string]any{
			"id": mappingID,
		},
	})
	assert.Equal(t, mappingID, updated["id"].AsString())
}

func TestCreateDistribution_IdentityStableAcrossUpdates(t *testing.T) {
	client := NewClient()
	args := map[string]cty.Value{
		"origin_domain_name": cty.StringVal("image-pipeline-images.s3.us-east-1.amazonaws.com"),
	}

	created := apply(t, client, "aws_cloudfront_distribution", "cdn", args, nil)
	distID := created["id"].AsString()
	assert.Regexp(t, `^E[0-9A-F]{13}$`, distID)
	domain := created["domain_name"].AsString()
	assert.Contains(t, domain, ".cloudfront.net")
	assert.Equal(t, "Deployed", created["status"].AsString())

	updated := apply(t, client, "aws_cloudfront_distribution", "cdn", args, &state.ResourceState{
		Type: "aws_cloudfront_distribution",
		Name: "cdn",
		Attributes: map[string]any{
			"id": distID,
		},
	})
	assert.Equal(t, distID, updated["id"].AsString())
	assert.Equal(t, domain, updated["domain_name"].AsString())
}

func TestCreateRolePolicy(t *testing.T) {
	attrs := apply(t, NewClient(), "aws_iam_role_policy", "worker", map[string]cty.Value{
		"name":   cty.StringVal("pipeline-worker-policy"),
		"role":   cty.StringVal("pipeline-worker"),
		"policy": cty.StringVal("{}"),
	}, nil)

	assert.Equal(t, "pipeline-worker:pipeline-worker-policy", attrs["id"].AsString())
}

func TestTypes_CoverPipelineStack(t *testing.T) {
	types := NewClient().Types()
	for _, want := range []string{
		"aws_s3_bucket",
		"aws_s3_bucket_notification",
		"aws_sqs_queue",
		"aws_sqs_queue_policy",
		"aws_iam_role",
		"aws_iam_role_policy",
		"aws_lambda_function",
		"aws_lambda_event_source_mapping",
		"aws_cloudfront_distribution",
	} {
		assert.Contains(t, types, want)
	}
}
