package repository

import (
	"context"
	"fmt"
	"time"
)

// StartJobExecution записывает начало выполнения задания планировщика
// и возвращает ID записи.
func (s *Storage) StartJobExecution(ctx context.Context, jobID string, startedAt time.Time) (int64, error) {
	const op = "storage.StartJobExecution"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO job_executions (job_id, started_at, status)
			  VALUES ($1, $2, 'running')
			  RETURNING id`
	var newID int64
	if err := s.DB.QueryRowContext(ctx, query, jobID, startedAt).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// FinishJobExecution фиксирует завершение выполнения задания.
func (s *Storage) FinishJobExecution(ctx context.Context, id int64, status, errText string) error {
	const op = "storage.FinishJobExecution"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE job_executions
			  SET finished_at = NOW(), status = $1, error = $2
			  WHERE id = $3`
	if _, err := s.DB.ExecContext(ctx, query, status, errText, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteOldJobExecutions удаляет записи истории заданий старше maxAge
// и возвращает количество удалённых строк.
func (s *Storage) DeleteOldJobExecutions(ctx context.Context, maxAge time.Duration) (int, error) {
	const op = "storage.DeleteOldJobExecutions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM job_executions WHERE started_at < $1`
	result, err := s.DB.ExecContext(ctx, query, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
