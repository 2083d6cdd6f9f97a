package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/javivarba/chatbots/internal/constants"
	"github.com/javivarba/chatbots/internal/metrics"
	"github.com/javivarba/chatbots/internal/view"
)

const (
	sep = " and "
)

type Error struct {
	Error       bool
	FailedField string
	Tag         string
	Value       interface{}
}

type IXValidator interface {
	Check(data any) error
	Validate(data interface{}) []Error
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(validator *validator.Validate, metrics *metrics.Metrics) IXValidator {
	return &XValidator{
		validator: validator,
		metrics:   metrics,
	}
}

// Check validates data and folds every failure into one INVALID_REQUEST error.
func (x XValidator) Check(data any) error {
	errs := x.Validate(data)
	if len(errs) == 0 {
		return nil
	}

	errMsgs := make([]string, 0, len(errs))
	for _, err := range errs {
		errMsgs = append(errMsgs, fmt.Sprintf("%s failed on %s", err.FailedField, err.Tag))

		if x.metrics != nil {
			x.metrics.RecordValidationError(err.FailedField, err.Tag)
		}
	}

	return view.NewError(constants.ErrCodeInvalidRequest, errors.New(strings.Join(errMsgs, sep)))
}

func (x XValidator) Validate(data interface{}) []Error {
	var validationErrors []Error

	errs := x.validator.Struct(data)
	if errs != nil {
		validationErrs, ok := errs.(validator.ValidationErrors)
		if !ok {
			return []Error{{Error: true, FailedField: "request", Tag: "struct"}}
		}

		for _, err := range validationErrs {
			var elem Error
			elem.FailedField = err.Field()
			elem.Tag = err.Tag()
			elem.Value = err.Value()
			elem.Error = true
			validationErrors = append(validationErrors, elem)
		}
	}
	return validationErrors
}
