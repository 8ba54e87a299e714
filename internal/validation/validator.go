// Package validation checks decoded tool arguments against the constraints
// declared in their `validate` struct tags.
//
// Fields are reported by their JSON names, so a failure reads the same way as
// the argument the caller sent:
//
//	v := validation.New()
//	if err := v.Struct("create_redis_cluster", &args); err != nil {
//	    // err is an *errdefs.ValidationError
//	    for _, f := range err.(*errdefs.ValidationError).Fields {
//	        fmt.Printf("%s: %s\n", f.Field, f.Message)
//	    }
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"evalgo.org/megacloud-mcp/internal/errdefs"
)

// Validator validates tool argument structs.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a Validator that names fields after their json tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	return &Validator{structValidator: v}
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

// Struct validates args for tool. It returns nil or an
// *errdefs.ValidationError listing every failed field.
func (v *Validator) Struct(tool string, args interface{}) error {
	err := v.structValidator.Struct(args)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %s arguments: %w", tool, err)
	}

	fields := make([]errdefs.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, errdefs.FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
			Value:   fe.Value(),
		})
	}
	return &errdefs.ValidationError{Tool: tool, Fields: fields}
}

// fieldPath drops the root struct name from the namespace:
// "clusterArgs.replicas[1]" becomes "replicas[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return fmt.Sprintf("must contain at most %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "unique":
		return "must not contain duplicates"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
