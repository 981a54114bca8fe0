package xrpl

import (
	"github.com/go-playground/validator/v10"
)

// AddressTag is the validator tag for classic addresses.
const AddressTag = "xrpl_address"

// RegisterValidations adds the ledger specific rules to v. It is used for the
// client's own validator and for gin's binding engine.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation(AddressTag, func(fl validator.FieldLevel) bool {
		return IsValidAddress(fl.Field().String())
	})
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}
