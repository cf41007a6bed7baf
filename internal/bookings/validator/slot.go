package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"studio/pkg/logger"
	"studio/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Fields returns field -> message, the shape used in error details.
func (v ValidationErrors) Fields() map[string]any {
	fields := make(map[string]any, len(v))
	for _, err := range v {
		fields[err.Field] = err.Message
	}
	return fields
}

type SlotValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSlotValidator(log *logger.Logger) *SlotValidator {
	v := validator.New()

	// Report json names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	log.Debug("Slot validator initialized successfully")

	return &SlotValidator{
		validate: v,
		logger:   log,
	}
}

// Validate checks a new slot. Slots may not start before now.
func (v *SlotValidator) Validate(slot *model.Slot, now time.Time) error {
	if err := v.validate.Struct(slot); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if slot.StartAt.Before(now) {
		return ValidationErrors{
			ValidationError{
				Field:   "start_at",
				Message: "start_at cannot be in the past",
			},
		}
	}

	return nil
}

// ValidateUpdate checks the update on its own and the slot it would produce.
func (v *SlotValidator) ValidateUpdate(update *model.SlotUpdate, merged *model.Slot) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !merged.EndAt.After(merged.StartAt) {
		return ValidationErrors{
			ValidationError{
				Field:   "end_at",
				Message: "end_at must be after start_at",
			},
		}
	}

	if merged.Capacity < merged.BookedCount {
		return ValidationErrors{
			ValidationError{
				Field:   "capacity",
				Message: fmt.Sprintf("capacity (%d) cannot be lower than booked seats (%d)", merged.Capacity, merged.BookedCount),
			},
		}
	}

	return nil
}

func (v *SlotValidator) ValidateContact(contact *model.BookingContact) error {
	if err := v.validate.Struct(contact); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *SlotValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), toSnake(err.Param()))
		case "ltefield":
			message = fmt.Sprintf("%s cannot exceed %s", err.Field(), toSnake(err.Param()))
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

// toSnake turns a Go field name such as StartAt into start_at.
func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
