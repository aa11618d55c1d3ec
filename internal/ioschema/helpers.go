package ioschema

import "fmt"

// createExtensionSQL formats an idempotent CREATE EXTENSION statement.
func createExtensionSQL(name string) string {
	return fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %s", name)
}
