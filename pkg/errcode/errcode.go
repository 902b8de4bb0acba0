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
	ReadDirError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Configuration errors
	UnknownModeError
	MissingCategoryError
	EmptyTagsError
	EmptyCaptionsError
	InvalidOptionError

	// Database errors
	DBOpenError
	DBNotConnectedError
	DBQueryError
	DBScanError
	DBIterationError
	DBCancelledError
	DBCreateTableError
	DBInsertError

	// Copy errors
	CopyRecordError
	CopySourceMissingError
	CopyCancelledError

	// Import errors
	ImportDecodeError
	ImportNoFilesError
	ImportMissingFieldError

	// Verify errors
	VerifyPatternError
)
