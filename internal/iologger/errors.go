package iologger

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/pkg/errcode"
)

// CreateLogFileError is returned when the log file cannot be created.
func CreateLogFileError(path string, err error) error {
	msg := `Cannot create log file <em>%s</em>

<em>How to fix:</em>
  1. Check permissions of the logs directory
  2. Or use <em>--log-destination stderr</em>`

	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("cannot create log file: %w", err),
	}
}
