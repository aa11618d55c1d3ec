package ioschema

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
		vars []any
	}{
		{"create", CreateSchemaError(cause), errcode.SchemaCreateError, nil},
		{"migrate", MigrateSchemaError(cause), errcode.SchemaMigrateError, nil},
		{"extension", ExtensionError("postgis", cause),
			errcode.SchemaExtensionError, []any{"postgis"}},
		{"spatial column", SpatialColumnError("aois", cause),
			errcode.SchemaExtensionError, []any{"aois"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok, "error should be of type *gn.Error")
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			assert.Equal(t, tt.vars, gnErr.Vars)
			assert.ErrorIs(t, gnErr.Err, cause)
		})
	}
}

func TestCreateExtensionSQL(t *testing.T) {
	assert.Equal(t, "CREATE EXTENSION IF NOT EXISTS postgis",
		createExtensionSQL("postgis"))
}
