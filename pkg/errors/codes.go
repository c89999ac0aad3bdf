package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeStorageError       ErrorCode = "COMMON_013"
	ErrCodeMessagingError     ErrorCode = "COMMON_014"
)

// Simulation engine error codes. These are the kinds surfaced by alignment,
// suitability building and the spread simulator.
const (
	ErrCodeInvalidInput     ErrorCode = "SIM_001"
	ErrCodeResourceNotFound ErrorCode = "SIM_002"
	ErrCodeAlignment        ErrorCode = "SIM_003"
	ErrCodeMissingLayer     ErrorCode = "SIM_004"
	ErrCodeSimInternal      ErrorCode = "SIM_005"
)

// Raster I/O error codes
const (
	ErrCodeRasterDecode      ErrorCode = "RIO_001"
	ErrCodeRasterEncode      ErrorCode = "RIO_002"
	ErrCodeRasterUnsupported ErrorCode = "RIO_003"
)

// Short aliases used across the code base.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")

	CodeInvalidInput     = ErrCodeInvalidInput
	CodeResourceNotFound = ErrCodeResourceNotFound
	CodeAlignmentError   = ErrCodeAlignment
	CodeMissingLayer     = ErrCodeMissingLayer
	CodeInternalError    = ErrCodeSimInternal

	CodeDatabaseError     = ErrCodeDatabaseError
	CodeStorageError      = ErrCodeStorageError
	CodeMessageQueueError = ErrCodeMessagingError
)

var codeNames = map[ErrorCode]string{
	ErrCodeInternal:           "INTERNAL",
	ErrCodeBadRequest:         "BAD_REQUEST",
	ErrCodeNotFound:           "NOT_FOUND",
	ErrCodeConflict:           "CONFLICT",
	ErrCodeServiceUnavailable: "SERVICE_UNAVAILABLE",
	ErrCodeTimeout:            "TIMEOUT",
	ErrCodeValidation:         "VALIDATION",
	ErrCodeSerialization:      "SERIALIZATION",
	ErrCodeDatabaseError:      "DATABASE_ERROR",
	ErrCodeStorageError:       "STORAGE_ERROR",
	ErrCodeMessagingError:     "MESSAGING_ERROR",

	ErrCodeInvalidInput:     "INVALID_INPUT",
	ErrCodeResourceNotFound: "RESOURCE_NOT_FOUND",
	ErrCodeAlignment:        "ALIGNMENT_ERROR",
	ErrCodeMissingLayer:     "MISSING_LAYER",
	ErrCodeSimInternal:      "INTERNAL_ERROR",

	ErrCodeRasterDecode:      "RASTER_DECODE",
	ErrCodeRasterEncode:      "RASTER_ENCODE",
	ErrCodeRasterUnsupported: "RASTER_UNSUPPORTED",
}

// Name returns the symbolic name of the code, e.g. "MISSING_LAYER".
// Unregistered codes return the raw code string.
func (c ErrorCode) Name() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return string(c)
}

// ErrorCodeExitStatus maps error codes to process exit statuses for the CLI.
// Codes not listed exit with status 1.
var ErrorCodeExitStatus = map[ErrorCode]int{
	ErrCodeInvalidInput:     2,
	ErrCodeBadRequest:       2,
	ErrCodeValidation:       2,
	ErrCodeResourceNotFound: 3,
	ErrCodeNotFound:         3,
	ErrCodeMissingLayer:     4,
	ErrCodeAlignment:        5,
	ErrCodeTimeout:          6,
}

// ExitStatus returns the CLI exit status for code.
func ExitStatus(code ErrorCode) int {
	if s, ok := ErrorCodeExitStatus[code]; ok {
		return s
	}
	return 1
}

// IsSimulationCode reports whether code belongs to the simulation engine family.
func IsSimulationCode(code ErrorCode) bool {
	return strings.HasPrefix(string(code), "SIM_")
}

//Personal.AI order the ending
