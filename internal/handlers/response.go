package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yukikurage/project-manager-api/internal/constants"
	apierrors "github.com/yukikurage/project-manager-api/internal/errors"
	"github.com/yukikurage/project-manager-api/internal/middleware"
	"github.com/yukikurage/project-manager-api/internal/services"
)

var registerTagNameOnce sync.Once

// RegisterValidatorTagNames makes validation errors report JSON and form
// field names instead of Go struct field names.
func RegisterValidatorTagNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})
	})
}

// respondError maps service errors onto API error responses
func respondError(c *gin.Context, log *zap.SugaredLogger, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		switch {
		case errors.Is(err, services.ErrNotFound):
			apierrors.NotFound(c, svcErr.Message)
		case errors.Is(err, services.ErrDuplicate):
			apierrors.Duplicate(c, svcErr.Message)
		case errors.Is(err, services.ErrInvalidState):
			apierrors.InvalidState(c, svcErr.Message)
		case errors.Is(err, services.ErrIntegrityViolation):
			apierrors.IntegrityViolation(c, svcErr.Message)
		case errors.Is(err, services.ErrInvalidInput):
			apierrors.BadRequest(c, svcErr.Message)
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	log.Errorw("request failed", "request_id", middleware.GetRequestID(c), "error", err)
	_ = c.Error(err)
	apierrors.InternalError(c, "")
}

// respondBindError reports a request that failed to bind or validate
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		names := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = describeFieldError(fe)
			names = append(names, fe.Field())
		}
		apierrors.BadRequestWithFields(c, "Invalid fields: "+strings.Join(names, ", "), fields)
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		apierrors.BadRequest(c, fmt.Sprintf("Invalid value for %s: expected %s", typeErr.Field, typeErr.Type))
		return
	}

	apierrors.BadRequest(c, "Invalid request body")
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed on '" + fe.Tag() + "'"
	}
}

// bindPartialJSON binds a partial update body into req and returns the set of
// keys that were sent with an explicit null.
func bindPartialJSON(c *gin.Context, req interface{}) (map[string]bool, error) {
	if err := c.ShouldBindBodyWith(req, binding.JSON); err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		return nil, err
	}

	nulls := make(map[string]bool)
	for key, value := range raw {
		if string(value) == "null" {
			nulls[key] = true
		}
	}
	return nulls, nil
}

// rejectNulls answers 400 when one of the given non-nullable fields was sent
// as null
func rejectNulls(c *gin.Context, nulls map[string]bool, fields ...string) bool {
	for _, name := range fields {
		if nulls[name] {
			apierrors.BadRequest(c, fmt.Sprintf("Field %s cannot be null", name))
			return true
		}
	}
	return false
}

// setTotalCount exposes the unpaginated result size
func setTotalCount(c *gin.Context, total int64) {
	c.Header(constants.TotalCountHeader, strconv.FormatInt(total, 10))
}

func pathID(c *gin.Context, name string) uint64 {
	id, _ := middleware.GetPathID(c, name)
	return id
}
