package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaExtensionError

	// Archive errors
	UnsupportedFormatError
	CorruptedArchiveError
	MissingExtractionToolError
	PasswordProtectedArchiveError
	ArchiveTooLargeError
	ScratchDirError

	// Geometry errors
	UnsupportedGeometryTypeError
	InvalidGeometryError
	CoordinateOutOfRangeError
	GeometryTooLargeError
	NoValidGeometryError
	ReadSourceError
	CoverageError

	// Selection errors
	InvalidSelectionRequestError
	CatalogQueryError
	CatalogImportError
	CatalogTileDecodeError

	// Storage errors
	StoreSaveError
	StoreLoadError

	// Object storage errors
	S3ConfigError
	S3GetObjectError
)
