package model

import "time"

// Request はセッション単位でブラインドユーザーと（任意の）ヘルパーを
// 結び付けるレコードを表す。通報処理では読み取り専用で参照される。
type Request struct {
	ID        string
	SessionID string
	TokenID   string
	BlindID   string
	// HelperID は未アサインの場合は空文字列。
	HelperID string
	Answered  bool
	CreatedAt time.Time
}

// AbuseReport はヘルパーに対する通報を表す。
// AbuseReportService経由でのみ作成され、作成後は不変。
type AbuseReport struct {
	ID        string
	RequestID string
	// HelperID は通報時点でリクエストにヘルパーが居なかった場合は空文字列。
	HelperID   string
	Reason     string
	ReportedAt time.Time
}
