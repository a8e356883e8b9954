package local

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stackformgo/internal/provider"
)

// createBucket reconciles an aws_s3_bucket. The bucket name is the user's
// `bucket` argument; everything else is derived from it.
func createBucket(ctx context.Context, req *provider.Request) (map[string]cty.Value, error) {
	bucket, err := requireStrArg(req, "bucket")
	if err != nil {
		return nil, err
	}

	attrs := baseAttrs(req)
	attrs["id"] = cty.StringVal(bucket)
	attrs["arn"] = cty.StringVal("arn:aws:s3:::" + bucket)
	attrs["region"] = cty.StringVal(region)
	attrs["bucket_regional_domain_name"] = cty.StringVal(
		fmt.Sprintf("%s.s3.%s.amazonaws.com", bucket, region))
	return attrs, nil
}

// createBucketPublicAccessBlock reconciles an
// aws_s3_bucket_public_access_block. The four block flags are plain
// booleans carried through as-is.
func createBucketPublicAccessBlock(ctx context.Context, req *provider.Request) (map[string]cty.Value, error) {
	bucket, err := requireStrArg(req, "bucket")
	if err != nil {
		return nil, err
	}

	attrs := baseAttrs(req)
	attrs["id"] = cty.StringVal(bucket)
	return attrs, nil
}

// createBucketPolicy reconciles an aws_s3_bucket_policy. The policy
// document is an opaque JSON string from the engine's point of view.
func createBucketPolicy(ctx context.Context, req *provider.Request) (map[string]cty.Value, error) {
	bucket, err := requireStrArg(req, "bucket")
	if err != nil {
		return nil, err
	}
	if _, err := requireStrArg(req, "policy"); err != nil {
		return nil, err
	}

	attrs := baseAttrs(req)
	attrs["id"] = cty.StringVal(bucket)
	return attrs, nil
}

// createBucketNotification reconciles an aws_s3_bucket_notification wiring
// object-created events from a bucket to a queue.
func createBucketNotification(ctx context.Context, req *provider.Request) (map[string]cty.Value, error) {
	bucket, err := requireStrArg(req, "bucket")
	if err != nil {
		return nil, err
	}
	if _, err := requireStrArg(req, "queue_arn"); err != nil {
		return nil, err
	}

	attrs := baseAttrs(req)
	attrs["id"] = cty.StringVal(bucket)
	return attrs, nil
}
