package health

import "errors"

var errNoDatabase = errors.New("database not configured")
