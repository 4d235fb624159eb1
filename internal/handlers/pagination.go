package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/apperrors"
	"storefront/internal/repository"
)

// parsePageRequest reads page (zero-based), size, sortBy and sortDir.
func parsePageRequest(c *gin.Context) (repository.PageRequest, error) {
	req := repository.PageRequest{
		Page:    0,
		Size:    repository.DefaultPageSize,
		SortBy:  c.Query("sortBy"),
		SortDir: c.Query("sortDir"),
	}

	if pageStr := strings.TrimSpace(c.Query("page")); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 0 {
			return req, apperrors.Validation("invalid pagination params", map[string]any{
				"page": fmt.Sprintf("page must be a non-negative integer, got %q", pageStr),
			})
		}
		if p > repository.MaxPage {
			return req, apperrors.Validation("invalid pagination params", map[string]any{
				"page": fmt.Sprintf("page must be at most %d", repository.MaxPage),
			})
		}
		req.Page = p
	}

	if sizeStr := strings.TrimSpace(c.Query("size")); sizeStr != "" {
		s, err := strconv.Atoi(sizeStr)
		if err != nil || s < 1 {
			return req, apperrors.Validation("invalid pagination params", map[string]any{
				"size": fmt.Sprintf("size must be a positive integer, got %q", sizeStr),
			})
		}
		req.Size = s
	}

	return req.Normalize(), nil
}

func hasPaginationParams(c *gin.Context) bool {
	_, page := c.GetQuery("page")
	_, size := c.GetQuery("size")
	return page || size
}
