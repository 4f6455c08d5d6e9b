package authz

import (
	"context"
	"fmt"
	"testing"

	"github.com/TwigBush/indexgate/internal/jwks"
)

type subjectFunc func(ctx context.Context, credential string) (string, error)

func (f subjectFunc) Subject(ctx context.Context, c string) (string, error) { return f(ctx, c) }

func TestRelationAndObject(t *testing.T) {
	if got := relationFor("RetailVerification:List"); got != "list" {
		t.Fatalf("relationFor = %q", got)
	}
	if got := relationFor("view"); got != "view" {
		t.Fatalf("relationFor = %q", got)
	}
	if got := objectFor(PricingResource); got != "resource:trn:tiki:pricing" {
		t.Fatalf("objectFor = %q", got)
	}
}

func TestOpenFGA_InvalidCredentialIsDeny(t *testing.T) {
	// client is never reached when the subject cannot be resolved
	o := &OpenFGA{subjects: subjectFunc(func(context.Context, string) (string, error) {
		return "", fmt.Errorf("%w: bad signature", jwks.ErrInvalidToken)
	})}

	d, err := o.Check(context.Background(), requestFor("garbage", PricingList))
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if d.Allowed || d.Reason != "invalid_credential" {
		t.Fatalf("decision = %+v", d)
	}
}

func TestOpenFGA_ResolverFailureIsError(t *testing.T) {
	o := &OpenFGA{subjects: subjectFunc(func(context.Context, string) (string, error) {
		return "", fmt.Errorf("jwks unreachable")
	})}
	if _, err := o.Check(context.Background(), requestFor("tok", PricingList)); err == nil {
		t.Fatalf("expected error")
	}
}
