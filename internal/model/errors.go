// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, activity, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeActivityNotFound   = "ACTIVITY_NOT_FOUND"
	ErrCodeAlreadyEnrolled    = "ALREADY_ENROLLED"
	ErrCodeNotEnrolled        = "NOT_ENROLLED"
	ErrCodeActivityFull       = "ACTIVITY_FULL"
	ErrCodeInvalidEmail       = "INVALID_EMAIL"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewLoginRequiredError はトークン未指定時の認証エラーを生成する。
func NewLoginRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "Teacher login required",
		Category: "auth",
		Action:   "Log in as a teacher and retry.",
	}
}

// NewInvalidSessionError は無効または失効したトークンの認証エラーを生成する。
func NewInvalidSessionError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "Invalid or expired session",
		Category: "auth",
		Action:   "Log in again to obtain a new session.",
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// ユーザー名の存在有無は区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid username or password",
		Category: "auth",
		Action:   "Check your username and password.",
	}
}

// NewActivityNotFoundError はアクティビティ未検出エラーを生成する。
func NewActivityNotFoundError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeActivityNotFound,
		Message:  "Activity not found",
		Category: "activity",
		Action:   fmt.Sprintf("Check the activity name: %s", name),
	}
}

// NewAlreadyEnrolledError は登録済み生徒の重複登録エラーを生成する。
func NewAlreadyEnrolledError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyEnrolled,
		Message:  "Student is already signed up",
		Category: "activity",
		Action:   "The student is already on this activity's roster.",
	}
}

// NewNotEnrolledError は未登録生徒の登録解除エラーを生成する。
func NewNotEnrolledError() *APIError {
	return &APIError{
		Code:     ErrCodeNotEnrolled,
		Message:  "Student is not signed up for this activity",
		Category: "activity",
		Action:   "Check the roster before unregistering.",
	}
}

// NewActivityFullError は定員到達エラーを生成する。
func NewActivityFullError(capacity int) *APIError {
	return &APIError{
		Code:     ErrCodeActivityFull,
		Message:  fmt.Sprintf("Activity is full (max %d participants)", capacity),
		Category: "activity",
		Action:   "Unregister another student or choose a different activity.",
	}
}

// NewInvalidEmailError は不正なメールアドレスのエラーを生成する。
func NewInvalidEmailError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  fmt.Sprintf("Invalid email address: %q", email),
		Category: "validation",
		Action:   "Enter a plain address such as student@mergington.edu.",
	}
}

// NewInvalidRequestError はリクエスト形式の不備を表すエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  reason,
		Category: "validation",
		Action:   "Fix the request and retry.",
	}
}

// NewInternalError は内部エラーの統一表現を生成する。
// 詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Internal server error",
		Category: "system",
		Action:   "Wait a moment and retry.",
	}
}
