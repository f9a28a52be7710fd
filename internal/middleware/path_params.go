package middleware

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/project-manager-api/internal/constants"
	apierrors "github.com/yukikurage/project-manager-api/internal/errors"
)

// RequireIDParams parses the named path parameters as positive integer IDs
// and stores them in the context. Requests with a malformed ID are rejected
// before reaching the handler.
func RequireIDParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := make(map[string]uint64, len(names))

		for _, name := range names {
			raw := c.Param(name)
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				apierrors.BadRequest(c, fmt.Sprintf("Invalid %s: %q is not a positive integer", name, raw))
				return
			}
			ids[name] = id
		}

		c.Set(constants.ContextKeyPathIDs, ids)
		c.Next()
	}
}

// GetPathID returns an ID parsed by RequireIDParams
func GetPathID(c *gin.Context, name string) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyPathIDs)
	if !exists {
		return 0, false
	}

	ids, ok := value.(map[string]uint64)
	if !ok {
		return 0, false
	}

	id, ok := ids[name]
	return id, ok
}
