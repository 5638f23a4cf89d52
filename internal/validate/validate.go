package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/config/config.go
//   type DurationConfig struct {
//       Hours   int `yaml:"hours"   validate:"gte=0,lte=23"`
//       Minutes int `yaml:"minutes" validate:"gte=0,lte=59"`
//   }
//
// Field names in errors follow the yaml (or json) tag, so messages match what
// the user wrote in the file.

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		validatorInst.RegisterTagNameFunc(tagName)
	})
	return validatorInst
}

// tagName reports a field by its yaml or json key.
func tagName(fld reflect.StructField) string {
	for _, key := range []string{"yaml", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return describe(get().Struct(v))
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}

// describe rewrites validator errors as "<field> must be <rule>" lines.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", fieldPath(fe), rule(fe)))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// fieldPath drops the top-level struct name: "Config.sound.volume" becomes
// "sound.volume".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func rule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "uuid4", "uuid_rfc4122":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed %q (value %v)", fe.Tag(), fe.Value())
	}
}
