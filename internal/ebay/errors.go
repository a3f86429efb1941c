package ebay

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error identifiers returned by the eBay Sell and Taxonomy APIs.
const (
	errIDInsufficientPermission = 1100
	errIDOfferAlreadyExists     = 25002
	errIDCategoryInvalid        = 25707
	errIDEntityNotFound         = 25710
	errIDOfferNotAvailable      = 25713
)

// APIError is a non-2xx response from eBay, carrying the HTTP status and the
// first error of the response envelope when one was present.
type APIError struct {
	Status  int
	ErrorID int
	Message string
}

func (e *APIError) Error() string {
	if e.ErrorID != 0 {
		return fmt.Sprintf("ebay: status %d errorId %d: %s", e.Status, e.ErrorID, e.Message)
	}
	return fmt.Sprintf("ebay: status %d: %s", e.Status, e.Message)
}

// HTTPStatus exposes the status for retry classification.
func (e *APIError) HTTPStatus() int {
	return e.Status
}

// ErrorKind is the internal classification the offer workflow branches on.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindOfferAlreadyExists
	KindOfferNotAvailable
	KindEntityNotFound
	KindCategoryInvalid
	KindPermissionDenied
)

// Classify maps a remote failure onto an ErrorKind. Numeric errorIds are
// authoritative; the category message match is a brittle fallback for
// responses where eBay omits a stable errorId.
func Classify(err error) ErrorKind {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return KindUnknown
	}
	switch apiErr.ErrorID {
	case errIDOfferAlreadyExists:
		return KindOfferAlreadyExists
	case errIDOfferNotAvailable:
		return KindOfferNotAvailable
	case errIDEntityNotFound:
		return KindEntityNotFound
	case errIDCategoryInvalid:
		return KindCategoryInvalid
	case errIDInsufficientPermission:
		return KindPermissionDenied
	}
	switch apiErr.Status {
	case http.StatusForbidden:
		return KindPermissionDenied
	case http.StatusNotFound:
		return KindEntityNotFound
	}
	if strings.Contains(strings.ToLower(apiErr.Message), "category") {
		return KindCategoryInvalid
	}
	return KindUnknown
}
