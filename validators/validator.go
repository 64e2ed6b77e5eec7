package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/anonto42/lumina/backend/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.]{3,30}$`)

// CustomValidator adapts validator.v10 to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate returns a models.ValidationError describing the first failed field.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return models.NewValidationError("%s", err.Error())
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return models.NewValidationError("%s is required", fe.Field())
	case "username":
		return models.NewValidationError("username must be 3-30 letters, digits, underscores or dots")
	case "min", "max":
		return models.NewValidationError("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	case "email", "url":
		return models.NewValidationError("%s must be a valid %s", fe.Field(), fe.Tag())
	case "oneof":
		return models.NewValidationError("%s must be one of %s", fe.Field(), fe.Param())
	}
	return models.NewValidationError("%s is invalid", fe.Field())
}
