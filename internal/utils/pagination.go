package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/project-manager-api/internal/constants"
)

// PaginationParams holds the skip/limit window of a list request
type PaginationParams struct {
	Skip  int
	Limit int
}

// GetPaginationParams reads skip and limit from the query string. Out of range
// values are clamped rather than rejected.
func GetPaginationParams(c *gin.Context) PaginationParams {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}

	return PaginationParams{
		Skip:  skip,
		Limit: limit,
	}
}
