package ios3

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/pkg/errcode"
)

// InvalidURIError is returned when a location is not an s3:// URI.
func InvalidURIError(uri string) error {
	msg := `Cannot parse S3 location <em>%s</em>

<em>How to fix:</em>
  Use s3://bucket/path/to/file.zip form`

	return &gn.Error{
		Code: errcode.S3ConfigError,
		Msg:  msg,
		Vars: []any{uri},
		Err:  fmt.Errorf("invalid s3 uri %q", uri),
	}
}

// ConfigError is returned when S3 client cannot be configured.
func ConfigError(err error) error {
	msg := `Cannot configure S3 client

<em>How to fix:</em>
  1. Check 's3' section of ~/.config/gnaoi/config.yaml
  2. Or set GNAOI_S3_* environment variables`

	return &gn.Error{
		Code: errcode.S3ConfigError,
		Msg:  msg,
		Err:  fmt.Errorf("cannot configure s3 client: %w", err),
	}
}

// GetObjectError is returned when an object cannot be downloaded.
func GetObjectError(uri string, err error) error {
	msg := `Cannot download <em>%s</em>

<em>How to fix:</em>
  1. Check that the bucket and key exist
  2. Check S3 credentials and endpoint`

	return &gn.Error{
		Code: errcode.S3GetObjectError,
		Msg:  msg,
		Vars: []any{uri},
		Err:  fmt.Errorf("cannot get %s: %w", uri, err),
	}
}
