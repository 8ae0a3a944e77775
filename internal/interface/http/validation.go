package http

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yanqian/vpd-calculator/internal/domain/psychro"
)

var registerOnce sync.Once

// registerValidators adds the `unit` tag to gin's validator.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
			_, err := psychro.ParseUnit(fl.Field().String())
			return err == nil
		})
	})
}
