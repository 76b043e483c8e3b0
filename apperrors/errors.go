package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// Sentinel errors for the failure classes handlers care about. Anything else
// that bubbles up from the database is treated as a persistence failure.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// NotFound wraps ErrNotFound with a resource-specific message.
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// Conflict wraps ErrConflict with an operation-specific message.
func Conflict(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrConflict)
}

// ValidationErrors collects every invalid field of a request at once, keyed by
// field name, so the client can highlight all of them in a single round trip.
// It is returned, not panicked: validation never reaches the persistence layer.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}

// PersistenceError marks a write that the database rejected or that failed on
// the wire. The original error is kept for logs; clients only see Op.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func Persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// Respond maps an error to the right HTTP status and JSON body. Every handler
// funnels its failures through here so the wire format stays uniform.
func Respond(c *gin.Context, err error) {
	var fields ValidationErrors
	if errors.As(err, &fields) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fields})
		return
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		var pe *PersistenceError
		if errors.As(err, &pe) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": pe.Op})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
