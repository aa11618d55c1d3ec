package iostore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/pkg/errcode"
)

// SaveError is returned when records cannot be stored.
func SaveError(table string, err error) error {
	msg := `Cannot save records to <em>%s</em>

<em>How to fix:</em>
  1. Create or migrate the schema: <em>gnaoi schema create</em>
  2. Check database logs for details`

	return &gn.Error{
		Code: errcode.StoreSaveError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to save %s: %w", table, err),
	}
}
