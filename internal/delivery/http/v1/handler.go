package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/validation"
)

// maxPatchBytes bounds editor request bodies; media goes through /upload
const maxPatchBytes = 1 << 20

// bindError turns a ShouldBindJSON failure into a 400 with readable field messages
func bindError(err error) *apperror.AppError {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, io.EOF):
		return apperror.BadRequest("Request body is required")
	case errors.As(err, &syntaxErr):
		return apperror.BadRequest("Request body is not valid JSON")
	case errors.As(err, &typeErr):
		return apperror.BadRequest(fmt.Sprintf("%s: has the wrong type", typeErr.Field))
	}
	return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
}

// readBody returns the raw request body, capped at maxPatchBytes
func readBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxPatchBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperror.PayloadTooLarge(fmt.Sprintf("Request body exceeds %d bytes", maxPatchBytes))
		}
		return nil, apperror.BadRequest("Failed to read request body")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, apperror.BadRequest("Request body is required")
	}
	return body, nil
}

// setRevision exposes the store revision so editors can send it back in If-Match
func setRevision(c *gin.Context, revision uint64) {
	c.Header("ETag", strconv.Quote(strconv.FormatUint(revision, 10)))
}

// mutateOptions reads an optional If-Match revision. Without one, writes are
// last-write-wins.
func mutateOptions(c *gin.Context) (domain.MutateOptions, error) {
	raw := strings.TrimSpace(c.GetHeader("If-Match"))
	if raw == "" || raw == "*" {
		return domain.MutateOptions{}, nil
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	rev, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return domain.MutateOptions{}, apperror.BadRequest("If-Match must carry a revision number")
	}
	return domain.MutateOptions{ExpectedRevision: &rev}, nil
}

// parseListQuery reads the public list filters
func parseListQuery(c *gin.Context) (domain.ListQuery, error) {
	q := domain.ListQuery{
		Type:     strings.TrimSpace(c.Query("type")),
		Category: strings.TrimSpace(c.Query("category")),
		Sort:     strings.TrimSpace(c.Query("sort")),
	}
	if raw, ok := c.GetQuery("featured"); ok {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return q, apperror.BadRequest("featured must be true or false")
		}
		q.Featured = &featured
	}
	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return q, apperror.BadRequest("limit must be a non-negative integer")
		}
		q.Limit = limit
	}
	return q, nil
}
