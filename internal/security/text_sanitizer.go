package security

import (
	"net/mail"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer は表示用テキストからマークアップを除去する機能のインターフェース。
// シードカタログの説明とスケジュールは読み込み時にこれを通す。
type TextSanitizer interface {
	// Sanitize はすべてのタグを除去し、HTML特殊文字をエスケープした文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(text string) string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのStrictPolicyはスレッドセーフに共有できる。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はStrictPolicyに基づくTextSanitizerを生成する。
func NewTextSanitizer() TextSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize はマークアップを除去したテキストを返す。
func (s *textSanitizer) Sanitize(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(text))
}

// EmailValidator は名簿に追加するメールアドレスを検証する。
type EmailValidator struct{}

// NewEmailValidator はEmailValidatorを生成する。
func NewEmailValidator() *EmailValidator {
	return &EmailValidator{}
}

// Valid はメールアドレスが名簿に格納可能かを判定する。
// 表示名付き形式（"Name <a@b>"）は拒否し、素のアドレスのみ受け付ける。
// 名簿はテキストとして描画されるため、'や&を含むアドレスもそのまま受け付ける。
func (v *EmailValidator) Valid(email string) bool {
	if email == "" || strings.TrimSpace(email) != email {
		return false
	}

	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Name == "" && addr.Address == email
}
