package selector

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/pkg/errcode"
)

// InvalidRequestError is returned when a selection request does not pass
// validation.
func InvalidRequestError(err error) error {
	msg := `Selection request is invalid: <em>%s</em>

<em>How to fix:</em>
  1. Start date must not be after end date
  2. Maximum cloud cover must be within [0, 100]`

	return &gn.Error{
		Code: errcode.InvalidSelectionRequestError,
		Msg:  msg,
		Vars: []any{err.Error()},
		Err:  fmt.Errorf("invalid selection request: %w", err),
	}
}

// CatalogQueryError is returned when the catalog cannot provide
// candidate tiles.
func CatalogQueryError(err error) error {
	msg := `Cannot query tile catalog

<em>How to fix:</em>
  Check catalog settings in the configuration file`

	return &gn.Error{
		Code: errcode.CatalogQueryError,
		Msg:  msg,
		Err:  fmt.Errorf("catalog query failed: %w", err),
	}
}
