package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/peerline/internal/model"
)

// PostgresAbuseReportRepo はPostgreSQLを使用した通報リポジトリ。
type PostgresAbuseReportRepo struct {
	db *sql.DB
}

// NewPostgresAbuseReportRepo はPostgresAbuseReportRepoを生成する。
func NewPostgresAbuseReportRepo(db *sql.DB) *PostgresAbuseReportRepo {
	return &PostgresAbuseReportRepo{db: db}
}

// Create は通報を作成する。
// 1通報=1行のINSERTであり、カウントは行数から導出されるため
// 並行して通報が作成されてもカウントの増分が失われることはない。
func (r *PostgresAbuseReportRepo) Create(ctx context.Context, report *model.AbuseReport) error {
	var helperID sql.NullString
	if report.HelperID != "" {
		helperID = sql.NullString{String: report.HelperID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO abuse_reports (id, request_id, helper_id, reason, reported_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		report.ID, report.RequestID, helperID, report.Reason, report.ReportedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert abuse report: %w", err)
	}
	return nil
}

// CountByHelperID は指定ヘルパーに紐付く通報数を返す。
func (r *PostgresAbuseReportRepo) CountByHelperID(ctx context.Context, helperID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM abuse_reports WHERE helper_id = $1`,
		helperID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count abuse reports: %w", err)
	}
	return count, nil
}

// ListByHelperID は指定ヘルパーの通報一覧をreported_at昇順で返す。
func (r *PostgresAbuseReportRepo) ListByHelperID(ctx context.Context, helperID string) ([]*model.AbuseReport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, helper_id, reason, reported_at
		 FROM abuse_reports
		 WHERE helper_id = $1
		 ORDER BY reported_at`,
		helperID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list abuse reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.AbuseReport
	for rows.Next() {
		report := &model.AbuseReport{}
		var hid sql.NullString
		if err := rows.Scan(&report.ID, &report.RequestID, &hid, &report.Reason, &report.ReportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan abuse report: %w", err)
		}
		if hid.Valid {
			report.HelperID = hid.String
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate abuse reports: %w", err)
	}

	return reports, nil
}

// compile-time interface check
var _ AbuseReportRepository = (*PostgresAbuseReportRepo)(nil)
