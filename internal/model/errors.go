package model

import "errors"

// ErrInvalidInput marks request payloads that fail domain validation.
// Handlers translate it into a 400 response.
var ErrInvalidInput = errors.New("invalid input")
