package api

import (
	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding rules used by request structs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("seattype", validSeatType)
}

func validSeatType(fl validator.FieldLevel) bool {
	_, err := domain.ParseSeatType(fl.Field().String())
	return err == nil
}
