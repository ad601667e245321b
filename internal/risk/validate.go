package risk

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/go-playground/validator/v10"
)

var snapshotValidate *validator.Validate

func init() {
	snapshotValidate = validator.New(validator.WithRequiredStructEnabled())
	// Report violations by their JSON names.
	snapshotValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// decimal 无法表示 Inf/NaN
	_ = snapshotValidate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			f := fl.Field().Float()
			return !math.IsInf(f, 0) && !math.IsNaN(f)
		}
		return true
	})
}

type Violation struct {
	Field string      `json:"field"`
	Rule  string      `json:"rule"`
	Param string      `json:"param,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

func (v Violation) String() string {
	if v.Param != "" {
		return fmt.Sprintf("%s failed %s=%s (got %v)", v.Field, v.Rule, v.Param, v.Value)
	}
	return fmt.Sprintf("%s failed %s (got %v)", v.Field, v.Rule, v.Value)
}

// ValidationError reports snapshot fields outside their contract ranges.
type ValidationError struct {
	Violations []Violation `json:"violations"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return "invalid compliance snapshot: " + strings.Join(parts, "; ")
}

// Validate checks the range contract of a snapshot: percentages in [0,100],
// non-negative counts, a positive max leverage and finite numbers throughout.
func Validate(snapshot *model.EntityComplianceSnapshot) error {
	if snapshot == nil {
		return ErrNilSnapshot
	}
	err := snapshotValidate.Struct(snapshot)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Violations: make([]Violation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Violations = append(out.Violations, Violation{
			Field: trimRoot(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}

func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
