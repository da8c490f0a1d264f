package response

import (
	"net/http"

	"cinereview/internal/domain"
)

// kindStatus maps each domain error kind to its HTTP status.
var kindStatus = map[domain.Kind]int{
	domain.KindValidation:        http.StatusBadRequest,
	domain.KindUnauthorized:      http.StatusUnauthorized,
	domain.KindInvalidCredential: http.StatusUnauthorized,
	domain.KindForbidden:         http.StatusForbidden,
	domain.KindNotFound:          http.StatusNotFound,
	domain.KindConflict:          http.StatusConflict,
	domain.KindDuplicateReview:   http.StatusConflict,
	domain.KindUnavailable:       http.StatusInternalServerError,
}

const MsgInternal = "internal error"

// Status returns the HTTP status for err; anything that is not a domain error is a 500.
func Status(err error) int {
	if s, ok := kindStatus[domain.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Message returns the client-safe message for err.
func Message(err error) string {
	if domain.KindOf(err) == 0 {
		return MsgInternal
	}
	return err.Error()
}
