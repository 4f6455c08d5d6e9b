package authz

import (
	"sort"
	"strings"
)

const (
	PricingResource = "trn:tiki:pricing"
	ReportResource  = "trn:tiki:RetailVerification:report"
)

var (
	PricingList   = Permission{Action: "RetailVerification:List", Resource: PricingResource}
	PricingView   = Permission{Action: "RetailVerification:View", Resource: PricingResource}
	PricingUpdate = Permission{Action: "RetailVerification:Update", Resource: PricingResource}
	PricingCreate = Permission{Action: "RetailVerification:Create", Resource: PricingResource}
	PricingDelete = Permission{Action: "RetailVerification:Delete", Resource: PricingResource}

	ReportView   = Permission{Action: "RetailVerification:View", Resource: ReportResource}
	ReportUpdate = Permission{Action: "RetailVerification:Update", Resource: ReportResource}
)

// short names used by config files and the CLI
var named = map[string]Permission{
	"pricing:list":   PricingList,
	"pricing:view":   PricingView,
	"pricing:update": PricingUpdate,
	"pricing:create": PricingCreate,
	"pricing:delete": PricingDelete,
	"report:view":    ReportView,
	"report:update":  ReportUpdate,
}

// LookupPermission resolves a short name like "pricing:list".
func LookupPermission(name string) (Permission, bool) {
	p, ok := named[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// PermissionNames lists the short names accepted by LookupPermission.
func PermissionNames() []string {
	out := make([]string, 0, len(named))
	for k := range named {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
