// Package validation validates settings structs for cliproc.
//
// Struct tag validation uses go-playground/validator with two extra tags:
// "notblank" rejects whitespace-only strings and "encoding" accepts only
// text encoding names that the capture package can decode.
//
//	type Settings struct {
//	    Program  string `mapstructure:"program" validate:"required,notblank"`
//	    Encoding string `mapstructure:"encoding" validate:"omitempty,encoding"`
//	}
//	err := validation.Validate(s)
//
// Failures are reported as *errors.AppError with per-field details.
package validation
