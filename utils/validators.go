package utils

import (
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// InitValidator registers custom validation rules with gin's binding engine.
func InitValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("phone", ValidatePhoneRule)
	}
}

func ValidatePhoneRule(fl validator.FieldLevel) bool {
	return ValidatePhone(fl.Field().String())
}

// ValidatePhone accepts E.164-style numbers: a leading +, then 7-15 digits.
func ValidatePhone(phone string) bool {
	if !strings.HasPrefix(phone, "+") {
		return false
	}
	digits := phone[1:]
	if len(digits) < 7 || len(digits) > 15 {
		return false
	}
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
