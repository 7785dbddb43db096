package resputil

type ErrorCode int

const (
	OK ErrorCode = 0

	// General
	InvalidRequest   ErrorCode = 40001
	ValidationFailed ErrorCode = 40002

	// Token
	TokenExpired ErrorCode = 40101
	TokenInvalid ErrorCode = 40102

	// Login
	InvalidCredentials ErrorCode = 40103
	AlreadyRegistered  ErrorCode = 40104

	// User is not allowed to access the resource
	UserNotAllowed ErrorCode = 40301

	// Resource does not exist
	NotFound ErrorCode = 40401

	// Workflow
	InvalidTransition ErrorCode = 40901
	WriteConflict     ErrorCode = 40902

	// Indicates laziness of the developer
	// Frontend will directly print the message without any translation
	NotSpecified ErrorCode = 99999
)
