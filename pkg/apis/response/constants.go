package response

type ErrCode int

const (
	_                       ErrCode = 10000 + iota
	ErrCodeMalformedJSON            // 10001
	ErrCodeRequestBody              // 10002
	ErrCodeResourceNotFound         // 10003
	ErrCodeInvalidConfig            // 10004
	ErrCodeParse                    // 10005
	ErrCodeAddressing               // 10006
	ErrCodeEmptyInput               // 10007
	ErrCodeWriteFailure             // 10008
	ErrCodeInternal                 // 10009
)

// !!! IMPORTANT PLEASE READ FIRST !!!
// You SHOULD add new code at the end, and append comment of number
// Meanwhile, the corresponding error message SHOULD be appended in response.errors
// The order MUST be consistent between them
