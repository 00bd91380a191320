package config

import (
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vango-dev/toaster/internal/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance returns the shared validator with the toaster rules
// registered.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("delay", func(fl validator.FieldLevel) bool {
			d, err := time.ParseDuration(fl.Field().String())
			return err == nil && d >= 0
		})

		_ = v.RegisterValidation("toast_duration", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if strings.EqualFold(s, PersistentDuration) {
				return true
			}
			d, err := time.ParseDuration(s)
			return err == nil && d >= 0
		})

		validateInst = v
	})

	return validateInst
}

// codeForTag maps a failed rule to the most specific error code.
var codeForTag = map[string]string{
	"toast_duration": "T103",
	"delay":          "T103",
}

// convertValidationError turns the first validator failure into a coded
// configuration error.
func convertValidationError(err error) error {
	var ves validator.ValidationErrors
	if !stderrors.As(err, &ves) || len(ves) == 0 {
		return errors.New("T100").Wrap(err)
	}

	fe := ves[0]
	field := fieldName(fe)
	code := "T100"
	switch {
	case codeForTag[fe.Tag()] != "":
		code = codeForTag[fe.Tag()]
	case field == "toast.position":
		code = "T101"
	case field == "toast.maxvisible":
		code = "T102"
	}

	detail := field + " failed validation for tag '" + fe.Tag() + "'"
	if fe.Param() != "" {
		detail += " (" + fe.Param() + ")"
	}
	return errors.New(code).WithField(field).WithDetail(detail).Wrap(err)
}

// fieldName renders the failing field as a lower-case dotted path without
// the root struct name, e.g. "serve.addr".
func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}
	return strings.Join(parts, ".")
}
