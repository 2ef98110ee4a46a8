package model

import "time"

// Token はセッションを認可する不透明なクレデンシャルを表す。
// 状態は issued と revoked の2つのみで、revoked は終端状態。
// 一度revokedになったトークンが再びissuedとして検証されることはない。
type Token struct {
	ID        string
	Value     string
	UserID    string
	Revoked   bool
	CreatedAt time.Time
}
