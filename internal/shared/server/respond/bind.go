package respond

import (
	"errors"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError names one request field that failed a binding rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// BindError writes the response for a failed ShouldBind* call. Oversized
// bodies map to 413, rule violations list their fields, and anything else
// is reported as a malformed body.
func BindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Error(c, http.StatusRequestEntityTooLarge, "too_large", "request body too large", gin.H{"limitBytes": tooLarge.Limit})
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: lowerFirst(fe.Field()), Rule: fe.Tag()})
		}
		Error(c, http.StatusBadRequest, "validation_error", "invalid request body", fields)
		return
	}

	Error(c, http.StatusBadRequest, "validation_error", "malformed request body", nil)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
