// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"ratrace/internal/catalog"
	"ratrace/internal/engine"
)

// Register registers all custom validators with the Gin binding engine.
// loan_amount accepts positive multiples of the catalog's loan increment up
// to its max loan.
func Register(rules catalog.Rules) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerOn(v, rules)
	}
}

func registerOn(v *validator.Validate, rules catalog.Rules) {
	_ = v.RegisterValidation("dice_value", validateDiceValue)
	_ = v.RegisterValidation("loan_amount", loanAmountValidator(rules.LoanIncrement, rules.MaxLoan))
	_ = v.RegisterValidation("game_status", validateGameStatus)
}

func validateDiceValue(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= 1 && n <= 6
}

func loanAmountValidator(increment, maxLoan int64) validator.Func {
	return func(fl validator.FieldLevel) bool {
		n := fl.Field().Int()
		if n <= 0 || (maxLoan > 0 && n > maxLoan) {
			return false
		}
		return increment <= 0 || n%increment == 0
	}
}

func validateGameStatus(fl validator.FieldLevel) bool {
	switch engine.Status(fl.Field().String()) {
	case engine.StatusActive, engine.StatusCompleted:
		return true
	}
	return false
}
