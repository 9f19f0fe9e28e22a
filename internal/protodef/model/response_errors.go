package model

type ResponseError struct {
	// 自定义错误码。
	Code int `json:"code"`
	// 请求ID。
	RequestID string `json:"requestID"`
	// Message
	Message string `json:"message"`
}

// 错误码前三位为对应的HTTP状态码。
const (
	ResponseErrorBadRequest           = 400000
	ResponseErrorValidation           = 400001
	ResponseErrorAttemptLimitExceeded = 400002
	ResponseErrorAlreadyComplete      = 400003
	ResponseErrorImmutableField       = 400004
	ResponseErrorUnauthorized         = 401000
	ResponseErrorNotLoggedIn          = 401001
	ResponseErrorBadToken             = 401003
	ResponseErrorWrongPassword        = 401004
	ResponseErrorForbidden            = 403000
	ResponseErrorNotFound             = 404000
	ResponseErrorNoSuchUser           = 404001
	ResponseErrorNoSuchClass          = 404002
	ResponseErrorNoSuchQuiz           = 404003
	ResponseErrorDuplicate            = 409000
	ResponseErrorPartialCascade       = 207000
	ResponseErrorInternal             = 500000
	ResponseErrorExternalService      = 502001
)

// HTTPStatus 错误码对应的HTTP状态码。
func (e ResponseError) HTTPStatus() int {
	return e.Code / 1000
}

// NewResponseErrorBadRequest 参数错误。
func NewResponseErrorBadRequest() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorBadRequest,
		Message: "bad request",
	}
}

func NewResponseErrorValidation(err error) *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorValidation,
		Message: err.Error(),
	}
}

// NewResponseErrorNotLoggedIn 用户未登录。
func NewResponseErrorNotLoggedIn() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNotLoggedIn,
		Message: "not logged in",
	}
}

// NewResponseErrorBadToken 登录token错误。
func NewResponseErrorBadToken() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorBadToken,
		Message: "bad token",
	}
}

func NewResponseErrorWrongPassword() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorWrongPassword,
		Message: "wrong account or password",
	}
}

// NewResponseErrorForbidden 非管理员调用管理接口。
func NewResponseErrorForbidden() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorForbidden,
		Message: "forbidden",
	}
}

// NewResponseErrorInternal 其他内部服务错误。
func NewResponseErrorInternal() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorInternal,
		Message: "internal server error",
	}
}

func NewResponseErrorNotFound() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNotFound,
		Message: "not found",
	}
}

// NewResponseErrorNoSuchUser 无此用户。
func NewResponseErrorNoSuchUser() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNoSuchUser,
		Message: "no such user",
	}
}

func NewResponseError(code int, message string) *ResponseError {
	return &ResponseError{
		Code:    code,
		Message: message,
	}
}
