package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/pkg/errcode"
)

// CreateDirError is returned when a gnaoi directory cannot be created.
func CreateDirError(dir string, err error) error {
	msg := `Cannot create directory <em>%s</em>

<em>How to fix:</em>
  Check permissions of the home directory`
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: []any{dir},
		Err: fmt.Errorf("from %s: cannot create directory: %w",
			fn.Name(), err),
	}
}

// CopyFileError is returned when the default config cannot be written.
func CopyFileError(file string, err error) error {
	msg := "Cannot copy config file to <em>%s</em>"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CopyFileError,
		Msg:  msg,
		Vars: []any{file},
		Err: fmt.Errorf("from %s: cannot copy file: %w",
			fn.Name(), err),
	}
}

// ReadFileError is returned when a local file cannot be read.
func ReadFileError(path string, err error) error {
	msg := `Cannot read <em>%s</em>

<em>How to fix:</em>
  Check that the file exists and is readable`
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: []any{path},
		Err: fmt.Errorf("from %s: cannot read %s: %w",
			fn.Name(), path, err),
	}
}
