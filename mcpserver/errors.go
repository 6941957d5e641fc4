package mcpserver

import "errors"

// ErrInvalidArguments is returned for tool arguments that fail validation.
var ErrInvalidArguments = errors.New("invalid arguments")
