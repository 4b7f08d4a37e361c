package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLimit is applied when the query carries no usable limit
	DefaultLimit = 20
	// MaxLimit caps any requested page size
	MaxLimit = 100
	// DefaultOffset is applied when the query carries no usable offset
	DefaultOffset = 0
)

// Params holds offset-based pagination parameters
type Params struct {
	Limit  int
	Offset int
}

// ParseParams extracts limit/offset from the query string, falling back to
// defaults for missing, malformed, or out-of-range values
func ParseParams(c *gin.Context) Params {
	return ParseParamsWithDefault(c, DefaultLimit)
}

// ParseParamsWithDefault is ParseParams with a caller-chosen default page size.
// The splits table uses 50 to match its page-size heuristic.
func ParseParamsWithDefault(c *gin.Context, defaultLimit int) Params {
	params := Params{Limit: defaultLimit, Offset: DefaultOffset}

	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			if limit > MaxLimit {
				limit = MaxLimit
			}
			params.Limit = limit
		}
	}

	if raw := c.Query("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset >= 0 {
			params.Offset = offset
		}
	}

	return params
}

// NextOffset returns the offset of the following page
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// HasNext applies the page-size heuristic: a full page means there is probably
// another one. The splits list has no server-provided total count.
func (p Params) HasNext(pageLen int) bool {
	return pageLen == p.Limit
}

// QueryString renders the params for upstream propagation
func (p Params) QueryString() string {
	return "limit=" + strconv.Itoa(p.Limit) + "&offset=" + strconv.Itoa(p.Offset)
}
