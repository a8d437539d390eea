package mysql

import (
	"context"
	"fmt"

	"garment-erp/internal/storage"
)

func (s *Storage) SaveBundles(ctx context.Context, bundles []storage.Bundle) error {
	const op = "storage.mysql.SaveBundles"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bundles (bundle_id, lot_number, roll_id, roll_number, fabric_name, article_number, article_name,
			color, size, layers, ratio, pieces, status, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()

	for _, b := range bundles {
		_, err := stmt.ExecContext(ctx, b.BundleID, b.LotNumber, b.RollID, b.RollNumber, b.FabricName, b.ArticleNumber,
			b.ArticleName, b.Color, b.Size, b.Layers, b.Ratio, b.Pieces, b.Status, b.Priority)
		if err != nil {
			if isDuplicate(err) {
				return fmt.Errorf("%s: bundle %s: %w", op, b.BundleID, storage.ErrBundlesExist)
			}
			return fmt.Errorf("%s: insert bundle %s: %w", op, b.BundleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

func (s *Storage) GetBundlesByLot(ctx context.Context, lotNumber string) ([]storage.Bundle, error) {
	const op = "storage.mysql.GetBundlesByLot"

	rows, err := s.db.QueryContext(ctx, `
		SELECT bundle_id, lot_number, roll_id, roll_number, fabric_name, article_number, article_name,
			color, size, layers, ratio, pieces, status, priority
		FROM bundles WHERE lot_number = ? ORDER BY CHAR_LENGTH(bundle_id), bundle_id`, lotNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	bundles := []storage.Bundle{}
	for rows.Next() {
		var b storage.Bundle
		err := rows.Scan(&b.BundleID, &b.LotNumber, &b.RollID, &b.RollNumber, &b.FabricName, &b.ArticleNumber,
			&b.ArticleName, &b.Color, &b.Size, &b.Layers, &b.Ratio, &b.Pieces, &b.Status, &b.Priority)
		if err != nil {
			return nil, fmt.Errorf("%s: scan bundle: %w", op, err)
		}
		bundles = append(bundles, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate bundles: %w", op, err)
	}

	return bundles, nil
}
