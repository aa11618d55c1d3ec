package ioarchive

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/pkg/errcode"
)

// UnsupportedFormatError is returned when the archive kind is not
// recognized.
func UnsupportedFormatError(name string) error {
	msg := `Format of <em>%s</em> is not supported

<em>Supported formats:</em>
  zip, tar, tar.gz, tar.bz2, tar.xz, rar, 7z, geojson`

	return &gn.Error{
		Code: errcode.UnsupportedFormatError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("unsupported format: %s", name),
	}
}

// CorruptedArchiveError is returned when archive cannot be read.
func CorruptedArchiveError(name string, err error) error {
	msg := `Archive <em>%s</em> is corrupted

<em>Possible causes:</em>
  - The upload was truncated
  - File extension does not match its content
  - Archive contains unsafe paths

<em>How to fix:</em>
  Recreate the archive and upload it again`

	return &gn.Error{
		Code: errcode.CorruptedArchiveError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("corrupted archive %s: %w", name, err),
	}
}

// MissingExtractionToolError is returned when no external tool for
// the archive kind is installed.
func MissingExtractionToolError(k Kind, tools []string) error {
	msg := `No tool to extract <em>%s</em> archives

<em>Looked for:</em> %s

<em>How to fix:</em>
  %s`

	vars := []any{k, strings.Join(tools, ", "), installGuide(k)}

	return &gn.Error{
		Code: errcode.MissingExtractionToolError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("none of extraction tools %v found for %s",
			tools, k),
	}
}

func installGuide(k Kind) string {
	switch runtime.GOOS {
	case "darwin":
		if k == Rar {
			return "brew install rar"
		}
		return "brew install sevenzip"
	case "windows":
		return "winget install 7zip.7zip"
	default:
		if k == Rar {
			return "sudo apt install unrar (or unar)"
		}
		return "sudo apt install p7zip-full"
	}
}

// PasswordProtectedArchiveError is returned for encrypted archives.
func PasswordProtectedArchiveError(name string) error {
	msg := `Archive <em>%s</em> is password protected

<em>How to fix:</em>
  Upload an archive without encryption`

	return &gn.Error{
		Code: errcode.PasswordProtectedArchiveError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("password protected archive: %s", name),
	}
}

// ArchiveTooLargeError is returned when extraction exceeds a limit.
func ArchiveTooLargeError(name, limit string) error {
	msg := `Archive <em>%s</em> exceeds the limit of %s

<em>How to fix:</em>
  Remove unrelated files from the archive or split it`

	return &gn.Error{
		Code: errcode.ArchiveTooLargeError,
		Msg:  msg,
		Vars: []any{name, limit},
		Err:  fmt.Errorf("archive %s exceeds %s", name, limit),
	}
}

// ScratchDirError is returned when a temporary directory cannot be
// created or written.
func ScratchDirError(err error) error {
	msg := "Cannot create temporary directory for extraction"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)

	return &gn.Error{
		Code: errcode.ScratchDirError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: scratch directory: %w", fn.Name(), err),
	}
}
