package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidID       = 1003
	ErrCodeMissingRequired = 1004
	ErrCodeTooManyFiles    = 1005

	// Access (2xxx)
	ErrCodeUploadNotFound = 2000
	ErrCodeSecretMismatch = 2001

	// Internal (5xxx)
	ErrCodeInternal     = 5000
	ErrCodeStoreFailure = 5001
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 403:
		return ErrCodeSecretMismatch
	case 404:
		return ErrCodeUploadNotFound
	default:
		return ErrCodeInternal
	}
}
