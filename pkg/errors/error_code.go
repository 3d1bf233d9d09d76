package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidTrigger      ErrorCode = 100
	ErrCodeInvalidTicker       ErrorCode = 101
	ErrCodeInvalidPrice        ErrorCode = 102
	ErrCodeInvalidCandle       ErrorCode = 103
	ErrCodeInvalidSignal       ErrorCode = 104
	ErrCodeInvalidDirection    ErrorCode = 105
	ErrCodeInvalidInvalidation ErrorCode = 106
	ErrCodeInvalidInterval     ErrorCode = 107

	// Store errors (200-299)
	ErrCodeStoreInitFailed      ErrorCode = 200
	ErrCodeQueryFailed          ErrorCode = 201
	ErrCodeSignalNotFound       ErrorCode = 202
	ErrCodeSignalAlreadyClosed  ErrorCode = 203
	ErrCodeEventAppendFailed    ErrorCode = 204
	ErrCodeSchemaIncompatible   ErrorCode = 205
	ErrCodeTransactionFailed    ErrorCode = 206

	// Evaluator errors (300-399)
	ErrCodeLoadSignalsFailed ErrorCode = 300
	ErrCodeEvaluationFailed  ErrorCode = 301

	// Notifier errors (400-499)
	ErrCodeNotifierUnavailable ErrorCode = 400
	ErrCodeDeliveryFailed      ErrorCode = 401
	ErrCodeQueueFull           ErrorCode = 402

	// Feed errors (500-599)
	ErrCodeFeedUnavailable ErrorCode = 500
	ErrCodeStreamFailed    ErrorCode = 501
	ErrCodeInvalidProvider ErrorCode = 502

	// Server errors (600-699)
	ErrCodeServerStartFailed ErrorCode = 600
	ErrCodeUnauthorized      ErrorCode = 601

	// Config errors (700-799)
	ErrCodeConfigReadFailed    ErrorCode = 700
	ErrCodeConfigParseFailed   ErrorCode = 701
	ErrCodeConfigInvalid       ErrorCode = 702
)
