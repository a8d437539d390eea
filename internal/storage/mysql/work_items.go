package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"garment-erp/internal/constants"
	"garment-erp/internal/storage"
)

const workItemColumns = `id, bundle_id, lot_number, template_id, article_number, article_name, color, size, pieces,
	operation_id, operation_name, operation_name_np, sequence, machine_type, skill_level, estimated_time, rate,
	total_earnings, dependencies, status, priority, assigned_operator, created_at, completed_at`

func scanWorkItem(row rowScanner) (storage.WorkItem, error) {
	var (
		w         storage.WorkItem
		depsJSON  []byte
		operator  sql.NullInt64
		completed sql.NullTime
	)

	err := row.Scan(&w.ID, &w.BundleID, &w.LotNumber, &w.TemplateID, &w.ArticleNumber, &w.ArticleName, &w.Color,
		&w.Size, &w.Pieces, &w.OperationID, &w.OperationName, &w.OperationNameNp, &w.Sequence, &w.MachineType,
		&w.SkillLevel, &w.EstimatedTime, &w.Rate, &w.TotalEarnings, &depsJSON, &w.Status, &w.Priority,
		&operator, &w.CreatedAt, &completed)
	if err != nil {
		return w, err
	}

	if err := json.Unmarshal(depsJSON, &w.Dependencies); err != nil {
		return w, fmt.Errorf("parse dependencies of %s: %w", w.ID, err)
	}
	if operator.Valid {
		id := operator.Int64
		w.AssignedOperator = &id
	}
	if completed.Valid {
		at := completed.Time
		w.CompletedAt = &at
	}

	return w, nil
}

func (s *Storage) SaveWorkItems(ctx context.Context, items []storage.WorkItem) error {
	const op = "storage.mysql.SaveWorkItems"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO work_items (`+workItemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()

	for _, w := range items {
		deps := w.Dependencies
		if deps == nil {
			deps = []string{}
		}
		depsJSON, err := json.Marshal(deps)
		if err != nil {
			return fmt.Errorf("%s: marshal dependencies of %s: %w", op, w.ID, err)
		}

		_, err = stmt.ExecContext(ctx, w.ID, w.BundleID, w.LotNumber, w.TemplateID, w.ArticleNumber, w.ArticleName,
			w.Color, w.Size, w.Pieces, w.OperationID, w.OperationName, w.OperationNameNp, w.Sequence, w.MachineType,
			w.SkillLevel, w.EstimatedTime, w.Rate, w.TotalEarnings, depsJSON, w.Status, w.Priority,
			w.AssignedOperator, w.CreatedAt, w.CompletedAt)
		if err != nil {
			if isDuplicate(err) {
				return fmt.Errorf("%s: work item %s already exists: %w", op, w.ID, err)
			}
			return fmt.Errorf("%s: insert work item %s: %w", op, w.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryWorkItems(ctx context.Context, q queryer, query string, args ...any) ([]storage.WorkItem, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []storage.WorkItem{}
	for rows.Next() {
		w, err := scanWorkItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}

	return items, rows.Err()
}

func (s *Storage) GetWorkItems(ctx context.Context, filter storage.WorkItemFilter) ([]storage.WorkItem, error) {
	const op = "storage.mysql.GetWorkItems"

	var (
		where []string
		args  []any
	)
	if filter.LotNumber != "" {
		where = append(where, "lot_number = ?")
		args = append(args, filter.LotNumber)
	}
	if filter.OperatorID != nil {
		where = append(where, "assigned_operator = ?")
		args = append(args, *filter.OperatorID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}

	query := `SELECT ` + workItemColumns + ` FROM work_items`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY lot_number, CHAR_LENGTH(bundle_id), bundle_id, sequence`

	items, err := queryWorkItems(ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// lockStatus reads the current status of a work item inside tx and checks
// that it may move to the next status.
func lockStatus(ctx context.Context, tx *sql.Tx, id, next string) error {
	var current string
	err := tx.QueryRowContext(ctx, `SELECT status FROM work_items WHERE id = ? FOR UPDATE`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("work item %s: %w", id, storage.ErrWorkItemNotFound)
		}
		return err
	}

	if !constants.CanTransition(current, next) {
		return fmt.Errorf("work item %s is %s, cannot become %s: %w", id, current, next, storage.ErrInvalidTransition)
	}

	return nil
}

// AssignWorkItem gives a ready work item to an active operator.
func (s *Storage) AssignWorkItem(ctx context.Context, id string, operatorID int64) error {
	const op = "storage.mysql.AssignWorkItem"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM operators WHERE id = ? AND is_active = TRUE)`, operatorID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: check operator %d: %w", op, operatorID, err)
	}
	if !exists {
		return fmt.Errorf("%s: operator %d: %w", op, operatorID, storage.ErrOperatorNotFound)
	}

	if err := lockStatus(ctx, tx, id, constants.WorkAssigned); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE work_items SET status = ?, assigned_operator = ? WHERE id = ?`,
		constants.WorkAssigned, operatorID, id)
	if err != nil {
		return fmt.Errorf("%s: update work item %s: %w", op, id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

// UpdateWorkItemStatus moves a work item to status, stamping completed_at
// when it completes. Moving back to ready clears the operator.
func (s *Storage) UpdateWorkItemStatus(ctx context.Context, id, status string, at time.Time) error {
	const op = "storage.mysql.UpdateWorkItemStatus"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if err := lockStatus(ctx, tx, id, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch status {
	case constants.WorkCompleted:
		_, err = tx.ExecContext(ctx, `UPDATE work_items SET status = ?, completed_at = ? WHERE id = ?`, status, at, id)
	case constants.WorkReady:
		_, err = tx.ExecContext(ctx, `UPDATE work_items SET status = ?, assigned_operator = NULL WHERE id = ?`, status, id)
	default:
		_, err = tx.ExecContext(ctx, `UPDATE work_items SET status = ? WHERE id = ?`, status, id)
	}
	if err != nil {
		return fmt.Errorf("%s: update work item %s: %w", op, id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

// CompleteWorkItem completes a work item and, in the same transaction, moves
// the waiting work items of its bundle chosen by release to ready. Completing
// an already completed item only runs the release again.
func (s *Storage) CompleteWorkItem(ctx context.Context, id string, at time.Time, release func([]storage.WorkItem) []string) ([]string, error) {
	const op = "storage.mysql.CompleteWorkItem"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var current, bundleID string
	err = tx.QueryRowContext(ctx, `SELECT status, bundle_id FROM work_items WHERE id = ? FOR UPDATE`, id).Scan(&current, &bundleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: work item %s: %w", op, id, storage.ErrWorkItemNotFound)
		}
		return nil, fmt.Errorf("%s: lock work item %s: %w", op, id, err)
	}

	if current != constants.WorkCompleted {
		if !constants.CanTransition(current, constants.WorkCompleted) {
			return nil, fmt.Errorf("%s: work item %s is %s, cannot become %s: %w",
				op, id, current, constants.WorkCompleted, storage.ErrInvalidTransition)
		}

		_, err = tx.ExecContext(ctx, `UPDATE work_items SET status = ?, completed_at = ? WHERE id = ?`,
			constants.WorkCompleted, at, id)
		if err != nil {
			return nil, fmt.Errorf("%s: update work item %s: %w", op, id, err)
		}
	}

	siblings, err := queryWorkItems(ctx, tx,
		`SELECT `+workItemColumns+` FROM work_items WHERE bundle_id = ? ORDER BY sequence FOR UPDATE`, bundleID)
	if err != nil {
		return nil, fmt.Errorf("%s: bundle %s: %w", op, bundleID, err)
	}

	released := release(siblings)
	if len(released) > 0 {
		args := make([]any, 0, len(released)+2)
		args = append(args, constants.WorkReady)
		for _, r := range released {
			args = append(args, r)
		}
		args = append(args, constants.WorkWaiting)

		query := `UPDATE work_items SET status = ? WHERE id IN (` + placeholders(len(released)) + `) AND status = ?`
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("%s: release dependents of %s: %w", op, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return released, nil
}
