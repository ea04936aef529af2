package errs

import "github.com/cockroachdb/errors/withstack"

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// SomethingWentWrong is returned when an unexpected error occurs.
	SomethingWentWrong = ErrorKind("Something went wrong")

	// InternalError is returned when internal logic got an error.
	InternalError = ErrorKind("Internal error")

	// InvalidArgument is returned when the caller passed a malformed argument.
	InvalidArgument = ErrorKind("Invalid argument")

	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// Unsupported is returned when a feature or value is not supported.
	Unsupported = ErrorKind("Unsupported")

	// MissingInputSpec is returned when a send or burn request carries neither
	// source addresses nor explicit UTXOs.
	MissingInputSpec = ErrorKind("Should have from as array of addresses or sendutxo as array of utxos")

	// BuildFailed is returned when the transaction builder rejects a request.
	BuildFailed = ErrorKind("Build transaction failed")

	// EncryptionFailed is returned when a metadata section can't be encrypted.
	EncryptionFailed = ErrorKind("Metadata encryption failed")

	// BroadcastFailed is returned when a signed transaction can't be broadcast.
	BroadcastFailed = ErrorKind("Broadcast transaction failed")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

type kindError struct {
	cause error
	kind  ErrorKind
}

func (e *kindError) Error() string {
	return e.cause.Error()
}

func (e *kindError) Unwrap() []error {
	return []error{e.cause, e.kind}
}

// WithKind classifies err as kind while keeping err's message and chain.
// It returns nil for a nil err.
func WithKind(err error, kind ErrorKind) error {
	if err == nil {
		return nil
	}
	return withstack.WithStackDepth(&kindError{cause: err, kind: kind}, 1)
}
