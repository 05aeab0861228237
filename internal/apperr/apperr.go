package apperr

import "net/http"

// 业务错误码，随响应原样返回
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeForbidden       = "INSUFFICIENT_PERMISSIONS"
	CodeInternal        = "INTERNAL_ERROR"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeTimeout         = "REQUEST_TIMEOUT"

	CodeUserExists          = "USER_EXISTS"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeProfileExists       = "PROFILE_EXISTS"
	CodeProfileNotFound     = "PROFILE_NOT_FOUND"
	CodeProviderExists      = "PROVIDER_EXISTS"
	CodeCategoryNotFound    = "CATEGORY_NOT_FOUND"
	CodeCategoryExists      = "CATEGORY_EXISTS"
	CodeServiceNotFound     = "SERVICE_NOT_FOUND"
	CodeBookingNotFound     = "BOOKING_NOT_FOUND"
	CodeSlotNotFound        = "SLOT_NOT_FOUND"
	CodeInvalidTransition   = "INVALID_STATUS_TRANSITION"
	CodeDocumentNotFound    = "DOCUMENT_NOT_FOUND"
	CodeRecruiterNotFound   = "RECRUITER_NOT_FOUND"
	CodeRecruiterIDRequired = "RECRUITER_ID_REQUIRED"
	CodeInvitationNotFound  = "INVITATION_NOT_FOUND"
	CodeInvalidInviteToken  = "INVALID_INVITE_TOKEN"
	CodeInviteEmailMismatch = "INVITE_EMAIL_MISMATCH"
	CodeInviteExpired       = "INVITE_EXPIRED"
	CodeInviteRevoked       = "INVITE_REVOKED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
)

// Error 统一业务错误：HTTP 状态 + 错误码 + 对外消息（Err 仅入日志）
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code, msg string) *Error {
	return &Error{Status: status, Code: code, Message: msg}
}

func BadRequest(msg string) *Error {
	return New(http.StatusBadRequest, CodeValidation, msg)
}

// BadRequestCode 400 但指定业务错误码（邀请 token 一类）
func BadRequestCode(code, msg string) *Error {
	return New(http.StatusBadRequest, code, msg)
}

func Unauthorized(code, msg string) *Error {
	return New(http.StatusUnauthorized, code, msg)
}

func Forbidden(msg string) *Error {
	return New(http.StatusForbidden, CodeForbidden, msg)
}

func NotFound(code, msg string) *Error {
	return New(http.StatusNotFound, code, msg)
}

func Conflict(code, msg string) *Error {
	return New(http.StatusConflict, code, msg)
}

func Internal(msg string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: msg, Err: err}
}
