package domain

import "errors"

var ErrRootRequired = errors.New("migration root is required")
var ErrInvalidPattern = errors.New("invalid file pattern")
var ErrInvalidTimeout = errors.New("timeout must not be negative")
var ErrTransport = errors.New("schema request failed")
var ErrMalformedResponse = errors.New("malformed schema response")
