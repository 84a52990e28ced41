package model

import "github.com/go-playground/validator/v10"

// validate backs every record's Validate method. Validation fails
// closed: a stored value that does not match its shape is treated as
// absent by the callers, never as a crash.
var validate = validator.New(validator.WithRequiredStructEnabled())
