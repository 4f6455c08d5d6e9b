package authz

import (
	"context"
	"fmt"
)

// Static answers from a fixed grant table. Meant for local runs and tests.
type Static struct {
	AlwaysAllow bool
	Grants      map[string][]Permission // credential -> granted permissions
}

// NewStatic builds a Static oracle from short permission names per credential.
func NewStatic(alwaysAllow bool, grants map[string][]string) (*Static, error) {
	s := &Static{AlwaysAllow: alwaysAllow, Grants: make(map[string][]Permission, len(grants))}
	for cred, names := range grants {
		for _, n := range names {
			p, ok := LookupPermission(n)
			if !ok {
				return nil, fmt.Errorf("static grant for %q: unknown permission %q", cred, n)
			}
			s.Grants[cred] = append(s.Grants[cred], p)
		}
	}
	return s, nil
}

func (s *Static) Check(ctx context.Context, req Request) (Decision, error) {
	if s.AlwaysAllow {
		return Decision{Allowed: true}, nil
	}
	for _, p := range s.Grants[req.Credential] {
		if p.Action == req.Action && p.Resource == req.Resource {
			return Decision{Allowed: true}, nil
		}
	}
	return Decision{Allowed: false, Reason: "static_deny"}, nil
}
