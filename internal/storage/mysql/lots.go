package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"garment-erp/internal/storage"
)

func (s *Storage) SaveLot(ctx context.Context, lot storage.Lot) (int64, error) {
	const op = "storage.mysql.SaveLot"

	articlesJSON, err := json.Marshal(lot.Articles)
	if err != nil {
		return 0, fmt.Errorf("%s: marshal articles: %w", op, err)
	}
	sizeConfigJSON, err := json.Marshal(lot.SizeConfig)
	if err != nil {
		return 0, fmt.Errorf("%s: marshal size config: %w", op, err)
	}

	status := lot.Status
	if status == "" {
		status = storage.LotDraft
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO lots (lot_number, fabric_name, fabric_width, nepali_date, roll_count, articles, size_config, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		lot.LotNumber, lot.FabricName, lot.FabricWidth, lot.NepaliDate, lot.RollCount,
		articlesJSON, sizeConfigJSON, status)
	if err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%s: lot %s: %w", op, lot.LotNumber, storage.ErrLotExists)
		}
		return 0, fmt.Errorf("%s: insert lot %s: %w", op, lot.LotNumber, err)
	}

	lotID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: last insert id: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rolls (id, lot_id, roll_number, color_name, layer_count, marked_weight, actual_weight, pieces)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()

	for _, r := range lot.Rolls {
		_, err := stmt.ExecContext(ctx, r.ID, lotID, r.RollNumber, r.ColorName, r.LayerCount, r.MarkedWeight, r.ActualWeight, r.Pieces)
		if err != nil {
			if isDuplicate(err) {
				return 0, fmt.Errorf("%s: roll %s of lot %s: %w", op, r.ID, lot.LotNumber, storage.ErrRollExists)
			}
			return 0, fmt.Errorf("%s: insert roll %d of lot %s: %w", op, r.RollNumber, lot.LotNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return lotID, nil
}

func (s *Storage) GetLot(ctx context.Context, lotNumber string) (*storage.Lot, error) {
	const op = "storage.mysql.GetLot"

	lot := &storage.Lot{}
	var articlesJSON, sizeConfigJSON []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT id, lot_number, fabric_name, fabric_width, nepali_date, roll_count, articles, size_config, status, created_at
		FROM lots WHERE lot_number = ?`, lotNumber).Scan(
		&lot.ID, &lot.LotNumber, &lot.FabricName, &lot.FabricWidth, &lot.NepaliDate, &lot.RollCount,
		&articlesJSON, &sizeConfigJSON, &lot.Status, &lot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: lot %s: %w", op, lotNumber, storage.ErrLotNotFound)
		}
		return nil, fmt.Errorf("%s: query lot %s: %w", op, lotNumber, err)
	}

	if err := json.Unmarshal(articlesJSON, &lot.Articles); err != nil {
		return nil, fmt.Errorf("%s: parse articles: %w", op, err)
	}
	if err := json.Unmarshal(sizeConfigJSON, &lot.SizeConfig); err != nil {
		return nil, fmt.Errorf("%s: parse size config: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, roll_number, color_name, layer_count, marked_weight, actual_weight, pieces
		FROM rolls WHERE lot_id = ? ORDER BY roll_number`, lot.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: query rolls: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r storage.Roll
		if err := rows.Scan(&r.ID, &r.RollNumber, &r.ColorName, &r.LayerCount, &r.MarkedWeight, &r.ActualWeight, &r.Pieces); err != nil {
			return nil, fmt.Errorf("%s: scan roll: %w", op, err)
		}
		lot.Rolls = append(lot.Rolls, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate rolls: %w", op, err)
	}

	return lot, nil
}

// GetLots lists lots newest first, without their rolls.
func (s *Storage) GetLots(ctx context.Context) ([]storage.Lot, error) {
	const op = "storage.mysql.GetLots"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lot_number, fabric_name, fabric_width, nepali_date, roll_count, articles, size_config, status, created_at
		FROM lots ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	lots := []storage.Lot{}
	for rows.Next() {
		var (
			lot                          storage.Lot
			articlesJSON, sizeConfigJSON []byte
		)
		err := rows.Scan(&lot.ID, &lot.LotNumber, &lot.FabricName, &lot.FabricWidth, &lot.NepaliDate, &lot.RollCount,
			&articlesJSON, &sizeConfigJSON, &lot.Status, &lot.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan lot: %w", op, err)
		}
		if err := json.Unmarshal(articlesJSON, &lot.Articles); err != nil {
			return nil, fmt.Errorf("%s: parse articles of %s: %w", op, lot.LotNumber, err)
		}
		if err := json.Unmarshal(sizeConfigJSON, &lot.SizeConfig); err != nil {
			return nil, fmt.Errorf("%s: parse size config of %s: %w", op, lot.LotNumber, err)
		}
		lots = append(lots, lot)
	}

	return lots, rows.Err()
}

func (s *Storage) MarkLotConverted(ctx context.Context, lotNumber string) error {
	const op = "storage.mysql.MarkLotConverted"

	res, err := s.db.ExecContext(ctx, `UPDATE lots SET status = ? WHERE lot_number = ?`, storage.LotConverted, lotNumber)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: lot %s: %w", op, lotNumber, storage.ErrLotNotFound)
	}

	return nil
}
