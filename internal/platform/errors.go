package platform

import "errors"

var ErrInvalidLogLevel = errors.New("invalid log level")
var ErrInvalidLogFormat = errors.New("invalid log format")
