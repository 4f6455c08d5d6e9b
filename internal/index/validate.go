package index

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/TwigBush/indexgate/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names so messages match what clients send.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func checkDoc(doc types.VerificationIndexRequest) error {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return types.Internal("validate: %v", err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+" failed "+fe.Tag())
	}
	return types.Validation("%s", strings.Join(parts, "; "))
}

// checkBatch validates every document and rejects duplicate ids, so a bulk
// write is all or nothing.
func checkBatch(docs []types.VerificationIndexRequest) error {
	seen := make(map[string]struct{}, len(docs))
	for i, d := range docs {
		if err := checkDoc(d); err != nil {
			var f *types.Failure
			if errors.As(err, &f) && f.Kind == types.ErrValidation {
				return types.Validation("item %d: %s", i, f.Msg)
			}
			return err
		}
		if _, dup := seen[d.ID]; dup {
			return types.Conflict("duplicate id %q in batch", d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}
