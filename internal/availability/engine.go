// Package availability はヘルパーの稼働判定エンジンを提供する。
//
// 判定はユーザーに保存されたスケジュール（utc_offset、wake_up、go_to_sleep、
// available_from）と呼び出し時点の時刻のみから導出される純粋な計算で、
// 状態もキャッシュも持たない。正しさは呼び出し瞬間の時刻に依存するため、
// クエリは毎回再計算される。
package availability

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/peerline/internal/model"
)

const secondsPerDay = 24 * 60 * 60

// Engine は稼働判定のパラメータを保持する。
// DefaultWakeUpHourはwake_up未設定ユーザーの起床時刻（ローカル時）。
type Engine struct {
	DefaultWakeUpHour int
}

// NewEngine はEngineを生成する。
func NewEngine(defaultWakeUpHour int) *Engine {
	return &Engine{DefaultWakeUpHour: defaultWakeUpHour}
}

// ParseTimeOfDay は"HH:MM"形式の時刻を深夜0時からの秒数に変換する。
func ParseTimeOfDay(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*3600 + m*60, nil
}

// WakeUpSeconds はユーザーの起床時刻をローカル深夜0時からの秒数で返す。
// wake_upが未設定の場合はDefaultWakeUpHourにフォールバックする。
func (e *Engine) WakeUpSeconds(u *model.User) (int, error) {
	if u.WakeUp == "" {
		return e.DefaultWakeUpHour * 3600, nil
	}
	return ParseTimeOfDay(u.WakeUp)
}

// WakeUpSecondsUTC はユーザーの起床時刻をUTC深夜0時からの秒数で返す。
func (e *Engine) WakeUpSecondsUTC(u *model.User) (int, error) {
	wake, err := e.WakeUpSeconds(u)
	if err != nil {
		return 0, err
	}
	return wrapSeconds(wake - offsetSeconds(u)), nil
}

// IsSnoozing はavailable_fromが設定されておりnowより未来の場合にtrueを返す。
// 未設定あるいは過去の場合はスヌーズ中ではない。
func IsSnoozing(u *model.User, now time.Time) bool {
	return u.AvailableFrom != nil && u.AvailableFrom.After(now)
}

// IsAwake はnow時点でユーザーが起床ウィンドウ内にいるかを判定する。
// ウィンドウは24時間周期で、就寝時刻が起床時刻以前の場合は深夜0時を
// またぐウィンドウとして扱う。go_to_sleep未設定は起床時刻と同値とみなし、
// 常に起床ウィンドウ内として扱う。
func (e *Engine) IsAwake(u *model.User, now time.Time) (bool, error) {
	wake, err := e.WakeUpSeconds(u)
	if err != nil {
		return false, fmt.Errorf("invalid wake_up for user %s: %w", u.ID, err)
	}

	sleep := wake
	if u.GoToSleep != "" {
		sleep, err = ParseTimeOfDay(u.GoToSleep)
		if err != nil {
			return false, fmt.Errorf("invalid go_to_sleep for user %s: %w", u.ID, err)
		}
	}

	localNow := wrapSeconds(secondsSinceUTCMidnight(now) + offsetSeconds(u))

	if sleep > wake {
		return wake <= localNow && localNow < sleep, nil
	}
	// ウィンドウが深夜0時をまたぐ場合
	return localNow >= wake || localNow < sleep, nil
}

// NonSnoozingUsers はスヌーズ中でないユーザーのみを返す。
func NonSnoozingUsers(users []*model.User, now time.Time) []*model.User {
	var result []*model.User
	for _, u := range users {
		if !IsSnoozing(u, now) {
			result = append(result, u)
		}
	}
	return result
}

// AwakeUsers はスヌーズ中でなく、かつ起床ウィンドウ内のユーザーのみを返す。
// スケジュールが壊れているユーザーは警告ログを出して除外する。
func (e *Engine) AwakeUsers(users []*model.User, now time.Time) []*model.User {
	var result []*model.User
	for _, u := range NonSnoozingUsers(users, now) {
		awake, err := e.IsAwake(u, now)
		if err != nil {
			slog.Warn("skipping user with broken schedule",
				slog.String("user_id", u.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if awake {
			result = append(result, u)
		}
	}
	return result
}

// offsetSeconds はutc_offset（時間単位、小数可）を秒に変換する。
func offsetSeconds(u *model.User) int {
	return int(math.Round(u.UTCOffset * 3600))
}

// secondsSinceUTCMidnight はnowのUTC深夜0時からの経過秒数を返す。
func secondsSinceUTCMidnight(now time.Time) int {
	utc := now.UTC()
	return utc.Hour()*3600 + utc.Minute()*60 + utc.Second()
}

// wrapSeconds は秒数を[0, 86400)の範囲に正規化する。負数にも対応する。
func wrapSeconds(s int) int {
	s %= secondsPerDay
	if s < 0 {
		s += secondsPerDay
	}
	return s
}
