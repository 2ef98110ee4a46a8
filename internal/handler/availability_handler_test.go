package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hitoshi/peerline/internal/availability"
	"github.com/hitoshi/peerline/internal/metrics"
	"github.com/hitoshi/peerline/internal/model"
)

// mockUserLister はHelperListerのテスト用モック。
type mockUserLister struct {
	listAllFn func(ctx context.Context) ([]*model.User, error)
}

func (m *mockUserLister) ListAll(ctx context.Context) ([]*model.User, error) {
	return m.listAllFn(ctx)
}

var _ HelperLister = (*mockUserLister)(nil)

// mockCollector はmetrics.MetricsCollectorのテスト用モック。
type mockCollector struct {
	mu               sync.Mutex
	latencyRecorded  int
	submittedCount   int
	rejectedReasons  []string
	nonSnoozingGauge int
	awakeGauge       int
}

func (m *mockCollector) RecordReportSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submittedCount++
}

func (m *mockCollector) RecordReportRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectedReasons = append(m.rejectedReasons, reason)
}

func (m *mockCollector) SetNonSnoozingUsers(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nonSnoozingGauge = count
}

func (m *mockCollector) SetAwakeUsers(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.awakeGauge = count
}

func (m *mockCollector) RecordAvailabilityLatency(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencyRecorded++
}

var _ metrics.MetricsCollector = (*mockCollector)(nil)

// alwaysAwakeHelper はスケジュール未設定（常に起床扱い）のヘルパーを返す。
func alwaysAwakeHelper(id string) *model.User {
	return &model.User{ID: id, Role: model.RoleHelper}
}

// asleepHelper は現在時刻を含まない1時間の起床ウィンドウを持つヘルパーを返す。
func asleepHelper(id string) *model.User {
	h := time.Now().UTC().Hour()
	return &model.User{
		ID:        id,
		Role:      model.RoleHelper,
		UTCOffset: 0,
		WakeUp:    fmt.Sprintf("%02d:00", (h+2)%24),
		GoToSleep: fmt.Sprintf("%02d:00", (h+3)%24),
	}
}

func TestAvailabilityHandler_ListAwakeHelpers(t *testing.T) {
	future := time.Now().Add(1 * time.Hour)

	snoozing := alwaysAwakeHelper("helper-snoozing")
	snoozing.AvailableFrom = &future

	lister := &mockUserLister{
		listAllFn: func(ctx context.Context) ([]*model.User, error) {
			return []*model.User{
				alwaysAwakeHelper("helper-awake-1"),
				alwaysAwakeHelper("helper-awake-2"),
				asleepHelper("helper-asleep"),
				snoozing,
				{ID: "blind-1", Role: model.RoleBlind}, // ヘルパーでないので対象外
			}, nil
		},
	}

	collector := &mockCollector{}
	h := NewAvailabilityHandler(lister, availability.NewEngine(8), collector)

	req := httptest.NewRequest(http.MethodGet, "/api/helpers/awake", nil)
	w := httptest.NewRecorder()

	h.ListAwakeHelpers(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got awakeHelpersResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// awake = スヌーズ中でなく起床ウィンドウ内: helper-awake-1, helper-awake-2
	if got.AwakeCount != 2 {
		t.Errorf("awake_count = %d, want 2", got.AwakeCount)
	}
	// non_snoozing = スヌーズ中以外のヘルパー: awake-1, awake-2, asleep
	if got.NonSnoozingCount != 3 {
		t.Errorf("non_snoozing_count = %d, want 3", got.NonSnoozingCount)
	}
	if len(got.HelperIDs) != 2 {
		t.Fatalf("helper_ids length = %d, want 2", len(got.HelperIDs))
	}
	for _, id := range got.HelperIDs {
		if id == "blind-1" {
			t.Error("blind user must not appear in helper_ids")
		}
		if id == "helper-snoozing" || id == "helper-asleep" {
			t.Errorf("unexpected helper %q in awake list", id)
		}
	}

	if collector.latencyRecorded != 1 {
		t.Errorf("latency recorded %d times, want 1", collector.latencyRecorded)
	}
}

func TestAvailabilityHandler_ListAwakeHelpers_EmptyList(t *testing.T) {
	lister := &mockUserLister{
		listAllFn: func(ctx context.Context) ([]*model.User, error) {
			return nil, nil
		},
	}

	h := NewAvailabilityHandler(lister, availability.NewEngine(8), &mockCollector{})

	req := httptest.NewRequest(http.MethodGet, "/api/helpers/awake", nil)
	w := httptest.NewRecorder()

	h.ListAwakeHelpers(w, req)

	var got awakeHelpersResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if got.AwakeCount != 0 || got.NonSnoozingCount != 0 {
		t.Errorf("counts = (%d, %d), want (0, 0)", got.AwakeCount, got.NonSnoozingCount)
	}
	// 空でもnullではなく空配列を返す
	if got.HelperIDs == nil {
		t.Error("helper_ids should be an empty array, not null")
	}
}

func TestAvailabilityHandler_ListAwakeHelpers_StorageError_Returns500(t *testing.T) {
	lister := &mockUserLister{
		listAllFn: func(ctx context.Context) ([]*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}

	h := NewAvailabilityHandler(lister, availability.NewEngine(8), &mockCollector{})

	req := httptest.NewRequest(http.MethodGet, "/api/helpers/awake", nil)
	w := httptest.NewRecorder()

	h.ListAwakeHelpers(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}
