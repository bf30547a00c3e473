package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const nonFieldErrors = "non_field_errors"

// fieldErrors is the 400 body: field name -> messages.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f fieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(f[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func respondValidation(c *gin.Context, fe fieldErrors) {
	c.AbortWithStatusJSON(http.StatusBadRequest, fe)
}

func respondDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func respondNotFound(c *gin.Context) {
	respondDetail(c, http.StatusNotFound, "Not found.")
}

func respondUnauthorized(c *gin.Context, detail, code string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	body := gin.H{"detail": detail}
	if code != "" {
		body["code"] = code
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, body)
}

// respondInternal logs the cause and hides it from the client.
func (s *server) respondInternal(c *gin.Context, msg string, err error) {
	s.requestLogger(c).ErrorContext(c.Request.Context(), msg, "error", err)
	respondDetail(c, http.StatusInternalServerError, "Internal server error.")
}

var registerTagNameOnce sync.Once

// useJSONFieldNames makes validator report fields by their json tag so error
// keys match the request body.
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// bindJSON decodes and validates the body into obj. On failure it writes the
// response and returns false. messages overrides the default text per
// "field.tag", e.g. "username.required".
func bindJSON(c *gin.Context, obj any, messages map[string]string) bool {
	fe, err := bindFieldErrors(c, obj, messages)
	if err != nil {
		respondDetail(c, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return false
	}
	if fe != nil {
		respondValidation(c, fe)
		return false
	}
	return true
}

// bindFieldErrors is bindJSON without the response: validation failures come
// back as fieldErrors so callers can add their own checks; err is set only
// when the body is not valid JSON.
func bindFieldErrors(c *gin.Context, obj any, messages map[string]string) (fieldErrors, error) {
	err := shouldBindJSON(c, obj)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	fe := fieldErrors{}
	for _, v := range verrs {
		fe.add(v.Field(), validationMessage(v, messages))
	}
	return fe, nil
}

// shouldBindJSON is c.ShouldBindJSON except that an empty body decodes as {},
// so missing fields are reported per field rather than as a parse error.
func shouldBindJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return binding.Validator.ValidateStruct(obj)
	}
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return binding.Validator.ValidateStruct(obj)
	}
	return err
}

func validationMessage(v validator.FieldError, messages map[string]string) string {
	if msg, ok := messages[v.Field()+"."+v.Tag()]; ok {
		return msg
	}
	switch v.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", v.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", v.Param())
	default:
		return "Invalid value."
	}
}
