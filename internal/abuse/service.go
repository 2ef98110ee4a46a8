// Package abuse はヘルパーに対する通報のワークフローを提供する。
package abuse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/peerline/internal/metrics"
	"github.com/hitoshi/peerline/internal/model"
	"github.com/hitoshi/peerline/internal/repository"
	"github.com/hitoshi/peerline/internal/security"
)

// TokenValidator はトークン検証に必要なインターフェース。
// auth.Serviceの部分集合として定義する。
type TokenValidator interface {
	Validate(ctx context.Context, value string) (*model.User, error)
}

// Service は通報の検証・認可・記録を行う。
//
// 処理順序は固定で、(1) 入力の形状検証 → (2) トークン認可 →
// (3) リクエスト解決 → (4) 記録、の順に失敗した時点で終了する。
// 認可が成功するまでは一切の状態変更を行わない。
type Service struct {
	tokens      TokenValidator
	requestRepo repository.RequestRepository
	reportRepo  repository.AbuseReportRepository
	sanitizer   security.ReasonSanitizerService
	collector   metrics.MetricsCollector
}

// NewService はServiceを生成する。
func NewService(
	tokens TokenValidator,
	requestRepo repository.RequestRepository,
	reportRepo repository.AbuseReportRepository,
	sanitizer security.ReasonSanitizerService,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		tokens:      tokens,
		requestRepo: requestRepo,
		reportRepo:  reportRepo,
		sanitizer:   sanitizer,
		collector:   collector,
	}
}

// Report は通報を検証して記録する。
//
// リクエストにヘルパーがアサインされていれば通報はそのヘルパーに帰属し、
// ヘルパーのカウントがちょうど1増える。未アサインの場合は通報自体は
// リクエストに対して記録されるが、どのユーザーのカウントにも影響しない。
//
// 認可はエントリ時点で1回だけ検証される。検証後に並行ログアウトで
// トークンが失効しても、この呼び出し内では再検証しない（許容されたレース）。
func (s *Service) Report(ctx context.Context, tokenValue, requestID, reason string) (*model.AbuseReport, error) {
	// 1. 形状検証。認可より先に判定する。
	if tokenValue == "" || requestID == "" || reason == "" {
		s.collector.RecordReportRejected("bad_request")
		return nil, model.NewBadRequestError("token, request_id, reason are all required")
	}

	sanitized := s.sanitizer.Sanitize(reason)
	if sanitized == "" {
		// タグを剥いだ結果が空なら実質的に理由が無い
		s.collector.RecordReportRejected("bad_request")
		return nil, model.NewBadRequestError("reason must contain text")
	}

	// 2. 認可。トークンが未知でも失効済みでも同じUnauthorizedを返す。
	reporter, err := s.tokens.Validate(ctx, tokenValue)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			s.collector.RecordReportRejected("unauthorized")
			return nil, err
		}
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}

	// 3. リクエストの解決。
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	if request == nil {
		s.collector.RecordReportRejected("not_found")
		return nil, model.NewRequestNotFoundError(requestID)
	}

	// 4. 記録。ヘルパーへの帰属はINSERT 1行で行われ、
	// カウントは行数から導出されるため並行通報でも増分は失われない。
	report := &model.AbuseReport{
		ID:         uuid.New().String(),
		RequestID:  request.ID,
		HelperID:   request.HelperID,
		Reason:     sanitized,
		ReportedAt: time.Now(),
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save abuse report: %w", err)
	}

	s.collector.RecordReportSubmitted()
	slog.Info("abuse report recorded",
		slog.String("request_id", request.ID),
		slog.String("helper_id", report.HelperID),
		slog.String("reporter_id", reporter.ID),
	)

	return report, nil
}

// CountForHelper は指定ヘルパーに帰属する通報数を返す。
func (s *Service) CountForHelper(ctx context.Context, helperID string) (int, error) {
	if helperID == "" {
		return 0, fmt.Errorf("helper ID is required")
	}
	count, err := s.reportRepo.CountByHelperID(ctx, helperID)
	if err != nil {
		return 0, fmt.Errorf("failed to count abuse reports: %w", err)
	}
	return count, nil
}
