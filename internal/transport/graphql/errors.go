package graphql

import (
	"errors"

	"github.com/kailas-cloud/travelql/internal/usecase/resolver"
)

// CodeInternal is reported for resolver errors that carry no store classification.
const CodeInternal = "INTERNAL"

// extendedError carries a client-safe message and the extensions block.
// graphql-go copies Extensions() into the formatted error.
type extendedError struct {
	message    string
	extensions map[string]interface{}
}

func (e *extendedError) Error() string { return e.message }

func (e *extendedError) Extensions() map[string]interface{} { return e.extensions }

func toGraphQLError(err error) error {
	var fe *resolver.FieldError
	if errors.As(err, &fe) {
		return &extendedError{
			message: fe.Error(),
			extensions: map[string]interface{}{
				"code":  fe.Code(),
				"field": fe.Field,
			},
		}
	}
	return &extendedError{
		message:    "internal error",
		extensions: map[string]interface{}{"code": CodeInternal},
	}
}
