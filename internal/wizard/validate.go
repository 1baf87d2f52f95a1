package wizard

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// gate checks that a step's required fields are present.
type gate struct {
	v *validator.Validate
}

func newGate() *gate {
	return &gate{v: validator.New(validator.WithRequiredStructEnabled())}
}

// check returns a *ValidationError when the step is incomplete.
func (g *gate) check(step Step, d Draft) error {
	if step.required == nil {
		return nil
	}
	target := step.required(d)
	if target == nil {
		return &ValidationError{Step: step.Key, Fields: map[string]string{step.Fields[0]: "required"}}
	}

	err := g.v.Struct(target)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Namespace()] = fe.Tag()
	}
	return &ValidationError{Step: step.Key, Fields: fields}
}
