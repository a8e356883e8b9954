package local

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stackformgo/internal/provider"
)

// createFunction reconciles an aws_lambda_function. The source_code_hash
// argument is treated as opaque: it is only compared for equality against
// prior state to decide whether the published version advances.
func createFunction(ctx context.Context, req *provider.Request) (map[string]cty.Value, error) {
	name, err := requireStrArg(req, "function_name")
	if err != nil {
		return nil, err
	}
	if _, err := requireStrArg(req, "role"); err != nil {
		return nil, err
	}

	version := 1
	if req.Prior != nil {
		if priorVersion, ok := req.Prior.Attributes["version"].(string); ok {
			if n, convErr := strconv.Atoi(priorVersion); convErr == nil {
				version = n
			}
		}
		priorHash, _ := req.Prior.Attributes["source_code_hash"].(string)
		if priorHash != strArg(req, "source_code_hash") {
			version++
		}
	}

	attrs := baseAttrs(req)
	attrs["id"] = cty.StringVal(name)
	attrs["arn"] = cty.StringVal(fmt.Sprintf("arn:aws:lambda:%s:%s:function:%s", region, accountID, name))
	attrs["invoke_arn"] = cty.StringVal(fmt.Sprintf(
		"arn:aws:apigateway:%s:lambda:path/2015-03-31/functions/arn:aws:lambda:%s:%s:function:%s/invocations",
		region, region, accountID, name))
	attrs["version"] = cty.StringVal(strconv.Itoa(version))
	return attrs, nil
}

// createFunctionPermission reconciles an aws_lambda_permission, the grant
// that lets another service invoke the function.
func createFunctionPermission(ctx context.Context, req *provider.Request) (map[string]cty.Value, error) {
	statementID, err := requireStrArg(req, "statement_id")
	if err != nil {
		return nil, err
	}
	if _, err := requireStrArg(req, "function_name"); err != nil {
		return nil, err
	}
	if _, err := requireStrArg(req, "principal"); err != nil {
		return nil, err
	}

	attrs := baseAttrs(req)
	attrs["id"] = cty.StringVal(statementID)
	return attrs, nil
}

// createEventSourceMapping reconciles an aws_lambda_event_source_mapping
// (queue to function). Its UUID is generated once and kept stable.
func createEventSourceMapping(ctx context.Context, req *provider.Request) (map[string]cty.Value, error) {
	if _, err := requireStrArg(req, "event_source_arn"); err != nil {
		return nil, err
	}
	if _, err := requireStrArg(req, "function_name"); err != nil {
		return nil, err
	}

	mappingID := stableString(req, "id", uuid.NewString)

	attrs := baseAttrs(req)
	attrs["id"] = cty.StringVal(mappingID)
	attrs["uuid"] = cty.StringVal(mappingID)
	attrs["state"] = cty.StringVal("Enabled")
	return attrs, nil
}
