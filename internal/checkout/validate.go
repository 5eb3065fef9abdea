package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/nikolayk812/cartsync/internal/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// getValidator returns the shared validator. Field names in errors come from
// the label tag so they can be shown to the shopper as is.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if label := f.Tag.Get("label"); label != "" {
				return label
			}
			return f.Name
		})

		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = validate.RegisterValidation("shopper_email", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
	})

	return validate
}

type problems struct {
	missing []validator.FieldError
	email   validator.FieldError
	choice  validator.FieldError
}

func inspect(s any) (problems, error) {
	var p problems

	err := getValidator().Struct(s)
	if err == nil {
		return p, nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return p, fmt.Errorf("validate.Struct: %w", err)
	}

	for _, fe := range errs {
		switch fe.Tag() {
		case "shopper_email":
			p.email = fe
		case "oneof":
			if p.choice == nil {
				p.choice = fe
			}
		default:
			p.missing = append(p.missing, fe)
		}
	}

	return p, nil
}

// Validate checks the form in the order a shopper would fix it: missing
// contact and address fields first, then the email format, then card
// details when paying by card.
func (f Form) Validate() error {
	p, err := inspect(f)
	if err != nil {
		return err
	}

	switch {
	case len(p.missing) > 0:
		return missingError("Please fill in required fields: ", p.missing)
	case p.email != nil:
		return &domain.ValidationError{
			Summary: "Please enter a valid email address",
			Fields:  map[string]string{p.email.StructField(): "must be a valid email address"},
		}
	case p.choice != nil:
		return &domain.ValidationError{
			Summary: fmt.Sprintf("%s must be one of: %s", p.choice.Field(), p.choice.Param()),
			Fields:  map[string]string{p.choice.StructField(): "must be one of: " + p.choice.Param()},
		}
	}

	if f.PaymentMethod != MethodCard {
		return nil
	}

	p, err = inspect(f.Card)
	if err != nil {
		return err
	}
	if len(p.missing) > 0 {
		return missingError("Please fill in card details: ", p.missing)
	}

	return nil
}

func missingError(prefix string, missing []validator.FieldError) *domain.ValidationError {
	verr := &domain.ValidationError{Fields: make(map[string]string, len(missing))}

	labels := make([]string, 0, len(missing))
	for _, fe := range missing {
		verr.Fields[fe.StructField()] = "is required"
		labels = append(labels, fe.Field())
	}
	verr.Summary = prefix + strings.Join(labels, ", ")

	return verr
}
