package local

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stackformgo/internal/provider"
)

// createQueue reconciles an aws_sqs_queue. The queue URL doubles as the
// resource id, matching the shape real queue APIs report.
func createQueue(ctx context.Context, req *provider.Request) (map[string]cty.Value, error) {
	name, err := requireStrArg(req, "name")
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("https://sqs.%s.amazonaws.com/%s/%s", region, accountID, name)
	attrs := baseAttrs(req)
	attrs["id"] = cty.StringVal(url)
	attrs["url"] = cty.StringVal(url)
	attrs["arn"] = cty.StringVal(fmt.Sprintf("arn:aws:sqs:%s:%s:%s", region, accountID, name))
	return attrs, nil
}

// createQueuePolicy reconciles an aws_sqs_queue_policy granting another
// service permission to send to the queue.
func createQueuePolicy(ctx context.Context, req *provider.Request) (map[string]cty.Value, error) {
	queueURL, err := requireStrArg(req, "queue_url")
	if err != nil {
		return nil, err
	}
	if _, err := requireStrArg(req, "policy"); err != nil {
		return nil, err
	}

	attrs := baseAttrs(req)
	attrs["id"] = cty.StringVal(queueURL)
	return attrs, nil
}
