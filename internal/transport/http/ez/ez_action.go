package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cinereview/internal/core/auth"
	"cinereview/internal/domain"
	mdw "cinereview/internal/transport/http/middleware"
	resp "cinereview/internal/transport/http/response"
)

// Binder selects where an action's input comes from.
type Binder string

const (
	BindJSON  Binder = "json"  // request body
	BindQuery Binder = "query" // ?a=b
	BindURI   Binder = "uri"   // path params, `uri:"id"` tags
	BindNone  Binder = "none"  // handler reads c.Param / c.Query itself
)

// EZ registers actions on a router group. Gated actions verify with v.
type EZ struct {
	g   *gin.RouterGroup
	v   mdw.Verifier
	log *zap.Logger
}

func New(g *gin.RouterGroup, v mdw.Verifier, log *zap.Logger) EZ {
	if log == nil {
		log = zap.NewNop()
	}
	return EZ{g: g, v: v, log: log}
}

// Action describes one endpoint: I is the bound input, O the JSON output.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	// Status on success; 200 when zero.
	Status int
	// Auth requires a valid bearer token; Roles additionally restricts the claimed role.
	Auth    bool
	Roles   []string
	Handler func(c *gin.Context, in *I) (O, error)
}

// Caller returns the verified claims of a gated action.
func Caller(c *gin.Context) (*auth.Claims, error) {
	cl, ok := auth.ClaimsFrom(c.Request.Context())
	if !ok {
		return nil, domain.Unauthorized("Unauthorized: Token missing")
	}
	return cl, nil
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	var chain []gin.HandlerFunc
	switch {
	case len(a.Roles) > 0:
		chain = append(chain, mdw.RequireRole(e.v, a.Roles...))
	case a.Auth:
		chain = append(chain, mdw.RequireAuth(e.v))
	}

	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}

	chain = append(chain, func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindURI:
			bindErr = c.ShouldBindUri(&in)
		}
		if bindErr != nil {
			resp.Fail(c, domain.Validation("invalid request: "+bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		c.JSON(status, out)
	})

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, chain...)
	case http.MethodPut:
		e.g.PUT(a.Path, chain...)
	case http.MethodPatch:
		e.g.PATCH(a.Path, chain...)
	case http.MethodDelete:
		e.g.DELETE(a.Path, chain...)
	default:
		e.g.POST(a.Path, chain...)
	}
}

func (e EZ) fail(c *gin.Context, err error) {
	st := resp.Status(err)
	if st >= http.StatusInternalServerError {
		fields := []zap.Field{
			zap.String("rid", mdw.RequestIDFrom(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		}
		if cause := errors.Unwrap(err); cause != nil {
			fields = append(fields, zap.NamedError("cause", cause))
		}
		e.log.Error("request failed", fields...)
	}
	resp.Fail(c, err)
}
