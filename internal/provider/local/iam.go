package local

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stackformgo/internal/provider"
)

// createRole reconciles an aws_iam_role. The unique_id is generated once
// and then carried forward from prior state across updates.
func createRole(ctx context.Context, req *provider.Request) (map[string]cty.Value, error) {
	name, err := requireStrArg(req, "name")
	if err != nil {
		return nil, err
	}
	if _, err := requireStrArg(req, "assume_role_policy"); err != nil {
		return nil, err
	}

	uniqueID := stableString(req, "unique_id", func() string {
		return "AROA" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:17]
	})

	attrs := baseAttrs(req)
	attrs["id"] = cty.StringVal(name)
	attrs["arn"] = cty.StringVal(fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, name))
	attrs["unique_id"] = cty.StringVal(uniqueID)
	return attrs, nil
}

// createRolePolicy reconciles an aws_iam_role_policy, an inline policy
// attached to a role.
func createRolePolicy(ctx context.Context, req *provider.Request) (map[string]cty.Value, error) {
	name, err := requireStrArg(req, "name")
	if err != nil {
		return nil, err
	}
	role, err := requireStrArg(req, "role")
	if err != nil {
		return nil, err
	}
	if _, err := requireStrArg(req, "policy"); err != nil {
		return nil, err
	}

	attrs := baseAttrs(req)
	attrs["id"] = cty.StringVal(role + ":" + name)
	return attrs, nil
}
