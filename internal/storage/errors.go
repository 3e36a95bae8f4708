package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/minio/minio-go/v7"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrBucketNotFound = errors.New("bucket not found")
	ErrUnauthorized   = errors.New("unauthorized storage access")
	ErrInvalidKey     = errors.New("invalid object key")
)

// StorageError is returned by every backend operation that fails. Transient errors
// may succeed when retried; permanent ones will not.
type StorageError struct {
	Backend   string
	Op        string
	Transient bool
	Err       error
}

func (e *StorageError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("%s %s (%s): %v", e.Backend, e.Op, kind, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err wraps a StorageError worth retrying.
func IsTransient(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Transient
}

func permanent(backend, op string, err error) error {
	return &StorageError{Backend: backend, Op: op, Err: err}
}

func transient(backend, op string, err error) error {
	return &StorageError{Backend: backend, Op: op, Transient: true, Err: err}
}

// classify wraps transport level failures. Cancellation is never retried.
func classify(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return permanent(backend, op, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return transient(backend, op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return transient(backend, op, err)
	}
	return permanent(backend, op, err)
}

func mapMinioErr(op string, err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return permanent(BackendMinio, op, ErrObjectNotFound)
	case "NoSuchBucket":
		return permanent(BackendMinio, op, ErrBucketNotFound)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return permanent(BackendMinio, op, ErrUnauthorized)
	case "SlowDown", "InternalError", "ServiceUnavailable", "RequestTimeout", "XMinioServerNotInitialized":
		return transient(BackendMinio, op, err)
	case "":
		return classify(BackendMinio, op, err)
	default:
		if resp.StatusCode >= 500 {
			return transient(BackendMinio, op, err)
		}
		return permanent(BackendMinio, op, err)
	}
}

func mapCloudinaryMessage(op, msg string) error {
	lower := strings.ToLower(msg)
	err := errors.New(msg)
	switch {
	case strings.Contains(lower, "not found"):
		return permanent(BackendCloudinary, op, fmt.Errorf("%w: %s", ErrObjectNotFound, msg))
	case strings.Contains(lower, "invalid api key"), strings.Contains(lower, "invalid signature"), strings.Contains(lower, "unauthorized"):
		return permanent(BackendCloudinary, op, fmt.Errorf("%w: %s", ErrUnauthorized, msg))
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "rate limit"), strings.Contains(lower, "try again"):
		return transient(BackendCloudinary, op, err)
	default:
		return permanent(BackendCloudinary, op, err)
	}
}
