// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ReasonSanitizerService は通報理由の自由記述テキストをサニタイズし、
// モデレーター画面での表示時にXSS等のリスクが生じないようにする。
// bluemondayのStrictPolicyをベースに、保存前にすべてのHTMLを除去する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ReasonSanitizerService は通報理由テキストのサニタイズ機能のインターフェースを定義する。
type ReasonSanitizerService interface {
	// Sanitize は通報理由からすべてのHTMLタグを除去し、
	// 前後の空白をトリムしたプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(reason string) string
}

// reasonSanitizer はReasonSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type reasonSanitizer struct {
	policy *bluemonday.Policy
}

// NewReasonSanitizer はReasonSanitizerServiceの新しいインスタンスを生成する。
// 通報理由は書式を持たないプレーンテキストとして扱うため、
// タグを一切許可しないStrictPolicyを使用する。
func NewReasonSanitizer() *reasonSanitizer {
	return &reasonSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は通報理由をサニタイズしてプレーンテキストを返す。
func (s *reasonSanitizer) Sanitize(reason string) string {
	cleaned := s.policy.Sanitize(reason)
	// StrictPolicyは残存テキストをHTMLエスケープするため、
	// プレーンテキストとして保存する前にエスケープを戻す。
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// compile-time interface check
var _ ReasonSanitizerService = (*reasonSanitizer)(nil)
