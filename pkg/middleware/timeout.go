package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
)

// RequestTimeout bounds handler execution. Routes that mediate upstream calls get
// a deadline slightly above the upstream client timeout so the transport error
// path wins when the upstream is merely slow.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(d),
		timeout.WithResponse(func(c *gin.Context) {
			common.ErrorResponse(c, http.StatusGatewayTimeout, "tempo de resposta excedido")
		}),
	)
}
