package dispatch

import (
	"sort"

	"github.com/TwigBush/indexgate/internal/authz"
)

type Kind string

const (
	KindSearch                   Kind = "search"
	KindCount                    Kind = "count"
	KindCreateIndex              Kind = "create_index"
	KindCreateIndexBulk          Kind = "create_index_bulk"
	KindFindByID                 Kind = "find_by_id"
	KindDeleteIndex              Kind = "delete_index"
	KindSync                     Kind = "sync"
	KindFindOverviewReportByDate Kind = "find_overview_report_by_date"
)

// Operation declares what a kind of call requires. A nil Permission means
// the call is dispatched without consulting the oracle.
type Operation struct {
	Kind       Kind              `json:"kind"`
	Permission *authz.Permission `json:"permission,omitempty"`
}

func (o Operation) Guarded() bool { return o.Permission != nil }

type Table map[Kind]Operation

func guarded(k Kind, p authz.Permission) Operation {
	return Operation{Kind: k, Permission: &p}
}

// DefaultTable is the declared permission for every operation.
//
// delete_index ships unguarded, matching the service this gateway replaces;
// guardDelete puts it behind RetailVerification:Delete.
func DefaultTable(guardDelete bool) Table {
	t := Table{
		KindSearch:                   guarded(KindSearch, authz.PricingList),
		KindCount:                    guarded(KindCount, authz.PricingList),
		KindCreateIndex:              guarded(KindCreateIndex, authz.PricingCreate),
		KindCreateIndexBulk:          guarded(KindCreateIndexBulk, authz.PricingCreate),
		KindFindByID:                 guarded(KindFindByID, authz.PricingView),
		KindDeleteIndex:              {Kind: KindDeleteIndex},
		KindSync:                     guarded(KindSync, authz.PricingCreate),
		KindFindOverviewReportByDate: guarded(KindFindOverviewReportByDate, authz.ReportView),
	}
	if guardDelete {
		t[KindDeleteIndex] = guarded(KindDeleteIndex, authz.PricingDelete)
	}
	return t
}

func (t Table) Lookup(k Kind) (Operation, bool) {
	op, ok := t[k]
	return op, ok
}

// Operations returns the table sorted by kind.
func (t Table) Operations() []Operation {
	out := make([]Operation, 0, len(t))
	for _, op := range t {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
