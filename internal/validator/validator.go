// Package validator provides the custom validation tags used by request
// binding and by the domain services.
package validator

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"fintrack/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerTags(v)
	}
}

// New returns a standalone validator reading `validate` tags, with the custom
// tags registered and field names reported by their JSON name.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	registerTags(v)
	return v
}

func registerTags(v *validator.Validate) {
	_ = v.RegisterValidation("entry_type", validateEntryType)
	_ = v.RegisterValidation("iso_date", validateISODate)
	_ = v.RegisterValidation("notblank", validators.NotBlank)
}

func validateEntryType(fl validator.FieldLevel) bool {
	return models.EntryType(fl.Field().String()).IsValid()
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := models.NormalizeDate(fl.Field().String())
	return err == nil
}
