package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"cinereview/internal/core/auth"
	"cinereview/internal/domain"
	resp "cinereview/internal/transport/http/response"
)

// Verifier checks a raw Authorization header value.
type Verifier interface {
	Verify(header string) (*auth.Claims, error)
}

// AuthJWT verifies the bearer token and, when roles are given, requires the claimed
// role to be one of them. Claims are attached to the request context.
func AuthJWT(v Verifier, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if _, ok := auth.BearerToken(ah); !ok {
			resp.Abort(c, http.StatusUnauthorized, "Unauthorized: Token missing")
			return
		}
		claims, err := v.Verify(ah)
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "Invalid Token")
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
			msg := "Forbidden: insufficient role"
			if len(roles) == 1 && roles[0] == domain.RoleAdmin {
				msg = "Forbidden: Admins only"
			}
			resp.Abort(c, http.StatusForbidden, msg)
			return
		}
		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

func RequireAuth(v Verifier) gin.HandlerFunc { return AuthJWT(v) }

func RequireRole(v Verifier, roles ...string) gin.HandlerFunc { return AuthJWT(v, roles...) }
