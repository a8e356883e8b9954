package local

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stackformgo/internal/provider"
)

// createDistribution reconciles an aws_cloudfront_distribution in front of
// the bucket's regional endpoint. The distribution id and the public
// domain name derived from it are generated once and kept stable.
func createDistribution(ctx context.Context, req *provider.Request) (map[string]cty.Value, error) {
	if _, err := requireStrArg(req, "origin_domain_name"); err != nil {
		return nil, err
	}

	distID := stableString(req, "id", func() string {
		return "E" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:13]
	})

	attrs := baseAttrs(req)
	attrs["id"] = cty.StringVal(distID)
	attrs["arn"] = cty.StringVal(fmt.Sprintf("arn:aws:cloudfront::%s:distribution/%s", accountID, distID))
	attrs["domain_name"] = cty.StringVal(strings.ToLower(distID) + ".cloudfront.net")
	attrs["status"] = cty.StringVal("Deployed")
	attrs["hosted_zone_id"] = cty.StringVal("Z2FDTNDATAQYW2")
	return attrs, nil
}
