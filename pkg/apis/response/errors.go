package response

var errors = map[ErrCode]string{
	ErrCodeMalformedJSON:    "The JSON you provided was not well-formed or did not validate against our published format.",
	ErrCodeRequestBody:      "Request body error",
	ErrCodeResourceNotFound: "Resource not found: %s",
	ErrCodeInvalidConfig:    "Invalid generation config: %s",
	ErrCodeParse:            "Input could not be parsed: %s",
	ErrCodeAddressing:       "Device address does not fit the template: %s",
	ErrCodeEmptyInput:       "Nothing to generate: %s",
	ErrCodeWriteFailure:     "Point table could not be written: %s",
	ErrCodeInternal:         "Internal error: %s",
}

// !!! IMPORTANT PLEASE READ FIRST !!!
// You SHOULD add new code at the end of enum firstly.

var ErrMalformedJSON = &responseError{
	Code:    ErrCodeMalformedJSON,
	Message: errors[ErrCodeMalformedJSON],
}

var ErrRequestBody = &responseError{
	Code:    ErrCodeRequestBody,
	Message: errors[ErrCodeRequestBody],
}
