package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	fga "github.com/openfga/go-sdk/client"
	"github.com/openfga/go-sdk/credentials"

	"github.com/TwigBush/indexgate/internal/jwks"
)

// SubjectResolver maps an opaque credential to the subject OpenFGA knows.
type SubjectResolver interface {
	Subject(ctx context.Context, credential string) (string, error)
}

type OpenFGA struct {
	c        *fga.OpenFgaClient
	subjects SubjectResolver
}

type OpenFGAConfig struct {
	APIURL   string
	StoreID  string
	APIToken string // optional
	ModelID  string // optional but recommended in prod
}

func NewOpenFGA(cfg OpenFGAConfig, subjects SubjectResolver) (*OpenFGA, error) {
	if subjects == nil {
		return nil, errors.New("openfga: subject resolver is required")
	}
	conf := &fga.ClientConfiguration{
		ApiUrl:  cfg.APIURL,
		StoreId: cfg.StoreID,
	}

	// Pin a specific auth model if provided
	if cfg.ModelID != "" {
		conf.AuthorizationModelId = cfg.ModelID
	}
	if cfg.APIToken != "" {
		conf.Credentials = &credentials.Credentials{
			Method: credentials.CredentialsMethodApiToken,
			Config: &credentials.Config{ApiToken: cfg.APIToken},
		}
	}

	client, err := fga.NewSdkClient(conf)
	if err != nil {
		return nil, fmt.Errorf("openfga_client_init: %w", err)
	}
	return &OpenFGA{c: client, subjects: subjects}, nil
}

func (o *OpenFGA) Check(ctx context.Context, req Request) (Decision, error) {
	sub, err := o.subjects.Subject(ctx, req.Credential)
	if err != nil {
		if errors.Is(err, jwks.ErrInvalidToken) {
			return Decision{Allowed: false, Reason: "invalid_credential"}, nil
		}
		return Decision{}, fmt.Errorf("fga_subject: %w", err)
	}

	checkReq := fga.ClientCheckRequest{
		User:     "user:" + sub,
		Relation: relationFor(req.Action),
		Object:   objectFor(req.Resource),
	}

	resp, err := o.c.Check(ctx).Body(checkReq).Execute()
	if err != nil {
		return Decision{}, fmt.Errorf("fga_check_error: %w", err)
	}

	if resp.Allowed != nil && *resp.Allowed {
		return Decision{Allowed: true}, nil
	}
	return Decision{Allowed: false, Reason: "policy_denied"}, nil
}

// relationFor turns "RetailVerification:List" into the FGA relation "list".
func relationFor(action string) string {
	if i := strings.LastIndex(action, ":"); i >= 0 {
		action = action[i+1:]
	}
	return strings.ToLower(action)
}

func objectFor(resource string) string {
	return "resource:" + resource
}
