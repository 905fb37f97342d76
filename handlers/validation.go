package handlers

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	registerOnce sync.Once
)

// validPAN checks the 10 character tax id: 5 letters, 4 digits, 1 letter, uppercase.
func validPAN(fl validator.FieldLevel) bool {
	return panPattern.MatchString(fl.Field().String())
}

// RegisterValidators installs the custom binding tags used by request structs.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("pan", validPAN)
		}
	})
}
