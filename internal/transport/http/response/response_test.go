package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"cinereview/internal/domain"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.Validation("bad"), http.StatusBadRequest},
		{domain.Unauthorized("who"), http.StatusUnauthorized},
		{domain.InvalidCredential("nope"), http.StatusUnauthorized},
		{domain.Forbidden("no"), http.StatusForbidden},
		{domain.NotFound("gone"), http.StatusNotFound},
		{domain.Conflict("taken"), http.StatusConflict},
		{domain.DuplicateReview("twice"), http.StatusConflict},
		{domain.Unavailable("down", errors.New("dial tcp")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestMessageHidesUnknownErrors(t *testing.T) {
	assert.Equal(t, MsgInternal, Message(errors.New("pq: password authentication failed")))
	assert.Equal(t, "list movies failed", Message(domain.Unavailable("list movies failed", errors.New("io"))))
}

func TestFail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, domain.NotFound("Movie not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Movie not found"}`, w.Body.String())
	assert.True(t, c.IsAborted())
}
