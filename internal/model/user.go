// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの役割を表す。
type Role string

const (
	// RoleBlind は支援を求める匿名ユーザー。
	RoleBlind Role = "blind"
	// RoleHelper は支援に応じるボランティアユーザー。
	RoleHelper Role = "helper"
)

// User はサービス利用ユーザーを表す。
// WakeUp / GoToSleep はユーザーのローカル時刻（"HH:MM"形式）で、
// 2つで24時間周期の起床ウィンドウを定義する。
// WakeUpが空の場合は設定値DEFAULT_WAKE_UP_HOURにフォールバックする。
type User struct {
	ID        string
	FirstName string
	Email     string
	Role      Role

	// UTCOffset はUTCからの時差（時間単位、符号付き、小数可。例: -4, 5.5）。
	UTCOffset float64
	// WakeUp は起床時刻（ローカル "HH:MM"）。未設定は空文字列。
	WakeUp string
	// GoToSleep は就寝時刻（ローカル "HH:MM"）。未設定は空文字列。
	GoToSleep string
	// AvailableFrom が未来の時刻を指す間、ユーザーはスヌーズ中として扱われる。
	AvailableFrom *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
