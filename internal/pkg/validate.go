package pkg

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/shopgraph/internal/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := parseJSONTagName(f.Tag.Get("json")); name != "" {
				return name
			}
			return strings.ToLower(f.Name)
		})
	})
	return validate
}

// ValidateStruct checks obj against its `validate` tags. Failures are
// returned as a validation AppError whose message lists each offending
// field as name=rule, using JSON field names.
func ValidateStruct(obj any) error {
	err := validatorInstance().Struct(obj)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return domain.NewAppError(domain.CodeValidation, "invalid input", err)
	}

	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fe.Field()+": "+rule)
	}
	sort.Strings(parts)
	return domain.NewAppError(domain.CodeValidation, "invalid input: "+strings.Join(parts, ", "), err)
}

// parseJSONTagName extracts the field name from a JSON struct tag value.
func parseJSONTagName(tag string) string {
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return ""
	}
	return name
}
