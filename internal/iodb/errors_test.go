package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnaoi/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("root cause")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		vars int
	}{
		{"connection", ConnectionError("localhost", 5432, "gnaoi", "postgres", cause),
			errcode.DBConnectionError, 5},
		{"table check", TableCheckError(cause), errcode.DBTableCheckError, 0},
		{"table exists", TableExistsCheckError("aois", cause),
			errcode.DBTableExistsCheckError, 1},
		{"query tables", QueryTablesError(cause), errcode.DBQueryTablesError, 0},
		{"scan table", ScanTableError(cause), errcode.DBScanTableError, 0},
		{"drop table", DropTableError("aois", cause), errcode.DBDropTableError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok, "error should be of type *gn.Error")
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			assert.Len(t, gnErr.Vars, tt.vars)
			assert.ErrorIs(t, gnErr.Err, cause)
		})
	}
}

func TestNotConnectedError(t *testing.T) {
	gnErr, ok := NotConnectedError().(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}
