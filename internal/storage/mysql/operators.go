package mysql

import (
	"context"
	"fmt"

	"garment-erp/internal/storage"
)

// GetOperators lists active operators, optionally only those on machineType.
func (s *Storage) GetOperators(ctx context.Context, machineType string) ([]storage.Operator, error) {
	const op = "storage.mysql.GetOperators"

	query := `SELECT id, name, name_np, machine_type, skill_level, is_active FROM operators WHERE is_active = TRUE`
	var args []any
	if machineType != "" {
		query += ` AND machine_type = ?`
		args = append(args, machineType)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	operators := []storage.Operator{}
	for rows.Next() {
		var o storage.Operator
		if err := rows.Scan(&o.ID, &o.Name, &o.NameNp, &o.MachineType, &o.SkillLevel, &o.IsActive); err != nil {
			return nil, fmt.Errorf("%s: scan operator: %w", op, err)
		}
		operators = append(operators, o)
	}

	return operators, rows.Err()
}

func (s *Storage) SaveOperator(ctx context.Context, o storage.Operator) (int64, error) {
	const op = "storage.mysql.SaveOperator"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO operators (name, name_np, machine_type, skill_level, is_active) VALUES (?, ?, ?, ?, ?)`,
		o.Name, o.NameNp, o.MachineType, o.SkillLevel, o.IsActive)
	if err != nil {
		return 0, fmt.Errorf("%s: insert operator %s: %w", op, o.Name, err)
	}

	return res.LastInsertId()
}
