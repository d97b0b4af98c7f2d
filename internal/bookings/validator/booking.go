package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"villa/pkg/logger"
	"villa/pkg/model"

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

// Details renders the errors as an AppError details map keyed by field.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("booking_date", validateBookingDate); err != nil {
		log.Fatal("Failed to register 'booking_date' validator", "error", err)
	}
	if err := v.RegisterValidation("booking_status", validateBookingStatus); err != nil {
		log.Fatal("Failed to register 'booking_status' validator", "error", err)
	}

	v.RegisterStructValidation(bookingRequestStructLevel, model.BookingRequest{})
	v.RegisterStructValidation(blockRequestStructLevel, model.BlockRequest{})

	log.Debug("Booking validator initialized")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateBookingDate(fl validator.FieldLevel) bool {
	_, err := model.ParseDate(fl.Field().String())
	return err == nil
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	return model.BookingStatus(fl.Field().String()).IsValid()
}

// bookingRequestStructLevel enforces the per-type shape: standard stays carry
// an ordered date pair, long stay inquiries carry contact details and no dates.
func bookingRequestStructLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(model.BookingRequest)

	switch req.Type {
	case model.BookingTypeLongStayInquiry:
		if req.ContactEmail == "" {
			sl.ReportError(req.ContactEmail, "contact_email", "ContactEmail", "required_for_inquiry", "")
		}
		if req.Duration == "" {
			sl.ReportError(req.Duration, "duration", "Duration", "required_for_inquiry", "")
		}
		if req.CheckIn != "" || req.CheckOut != "" {
			sl.ReportError(req.CheckIn, "check_in", "CheckIn", "excluded_for_inquiry", "")
		}
	default:
		if req.CheckIn == "" {
			sl.ReportError(req.CheckIn, "check_in", "CheckIn", "required_for_standard", "")
		}
		if req.CheckOut == "" {
			sl.ReportError(req.CheckOut, "check_out", "CheckOut", "required_for_standard", "")
		}
		reportUnorderedDates(sl, req.CheckIn, req.CheckOut)
	}
}

func blockRequestStructLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(model.BlockRequest)
	reportUnorderedDates(sl, req.CheckIn, req.CheckOut)
}

func reportUnorderedDates(sl validator.StructLevel, checkIn, checkOut string) {
	start, errIn := model.ParseDate(checkIn)
	end, errOut := model.ParseDate(checkOut)
	if errIn != nil || errOut != nil {
		return
	}
	if !start.Before(end) {
		sl.ReportError(checkOut, "check_out", "CheckOut", "after_check_in", "")
	}
}

func (v *BookingValidator) ValidateBookingRequest(req *model.BookingRequest) error {
	return v.run(req)
}

func (v *BookingValidator) ValidateStatusUpdate(req *model.StatusUpdateRequest) error {
	return v.run(req)
}

func (v *BookingValidator) ValidateBlockRequest(req *model.BlockRequest) error {
	return v.run(req)
}

func (v *BookingValidator) run(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "booking_date":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "booking_status":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), statusList())
		case "required_for_standard":
			message = fmt.Sprintf("%s is required for standard bookings", err.Field())
		case "required_for_inquiry":
			message = fmt.Sprintf("%s is required for long stay inquiries", err.Field())
		case "excluded_for_inquiry":
			message = "long stay inquiries do not take check-in or check-out dates"
		case "after_check_in":
			message = "check_out must be after check_in"
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

func statusList() string {
	names := make([]string, len(model.AllStatuses))
	for i, s := range model.AllStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, " ")
}
