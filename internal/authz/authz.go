package authz

import "context"

// Permission is the capability an operation requires. Values are declared
// statically per operation, never taken from the request.
type Permission struct {
	Action   string `json:"action"`
	Resource string `json:"resource"`
}

func (p Permission) String() string {
	return p.Action + " on " + p.Resource
}

type Decision struct {
	Allowed bool
	Reason  string
}

type Request struct {
	Credential string // caller token, forwarded as received
	Action     string // e.g. "RetailVerification:List"
	Resource   string // e.g. "trn:tiki:pricing"
}

// Authorizer is the external oracle. An error means no decision was made.
type Authorizer interface {
	Check(ctx context.Context, req Request) (Decision, error)
}

func requestFor(credential string, p Permission) Request {
	return Request{Credential: credential, Action: p.Action, Resource: p.Resource}
}
