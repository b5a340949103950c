// FILE: internal/pkg/serverutils/validator.go
package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var sb strings.Builder
		for _, fieldErr := range err.(validator.ValidationErrors) {
			sb.WriteString(fmt.Sprintf("%s failed on '%s'; ", fieldErr.Field(), fieldErr.Tag()))
		}
		return fmt.Errorf("validation error: %s", strings.TrimSuffix(sb.String(), "; "))
	}
	return nil
}
