package middleware

import (
	"net/http"

	dom "TodoAPI/internal/domain"
	"TodoAPI/internal/validation"

	"github.com/gin-gonic/gin"
)

// Validate checks the request body, path params and query against schema before the
// handler runs. The body is cached under gin.BodyBytesKey for ShouldBindBodyWith.
func Validate(v *validation.Validator, schema validation.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			_ = c.Error(dom.NewAppError(http.StatusBadRequest, "Unable to read request body"))
			c.Abort()
			return
		}
		c.Set(gin.BodyBytesKey, body)

		in := validation.Input{
			Body:   body,
			Params: paramsOf(c),
			Query:  queryOf(c),
		}
		if err := v.Validate(schema, in); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func paramsOf(c *gin.Context) map[string]string {
	out := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		out[p.Key] = p.Value
	}
	return out
}

func queryOf(c *gin.Context) map[string]string {
	q := c.Request.URL.Query()
	out := make(map[string]string, len(q))
	for k := range q {
		out[k] = q.Get(k)
	}
	return out
}
