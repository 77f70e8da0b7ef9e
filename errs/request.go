package errs

import (
	"fmt"
)

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	e := NewBadRequestErrorWithField("malformed payload", "payload", payloadType)
	e.Cause = cause
	return e
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return NewBadRequestErrorWithField("missing required field", fieldName, fieldName)
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return NewBadRequestErrorWithField("invalid field", fieldName, fmt.Sprintf("%s %s", fieldName, reason))
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return NewBadRequestErrorWithField("max body size exceeded", "body_size", fmt.Sprintf("limit is %d bytes", maxSize))
}

func NewUnsupportedMediaTypeError(contentType string, allowed string) *ApiErr {
	return NewBadRequestErrorWithField("unsupported media type", "content_type", fmt.Sprintf("%s is not allowed, expected %s", contentType, allowed))
}
