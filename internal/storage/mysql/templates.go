package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"garment-erp/internal/storage"
)

const templateColumns = `id, name, name_np, article_type, category, is_custom, article_numbers, operations, is_active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (storage.Template, error) {
	var (
		t              storage.Template
		articlesJSON   sql.NullString
		operationsJSON []byte
	)

	err := row.Scan(&t.ID, &t.Name, &t.NameNp, &t.ArticleType, &t.Category, &t.IsCustom,
		&articlesJSON, &operationsJSON, &t.IsActive)
	if err != nil {
		return t, err
	}

	if articlesJSON.Valid && articlesJSON.String != "" {
		if err := json.Unmarshal([]byte(articlesJSON.String), &t.ArticleNumbers); err != nil {
			return t, fmt.Errorf("parse article numbers: %w", err)
		}
	}

	if err := json.Unmarshal(operationsJSON, &t.Operations); err != nil {
		return t, fmt.Errorf("parse operations: %w", err)
	}

	return t, nil
}

func (s *Storage) GetTemplate(ctx context.Context, id string) (*storage.Template, error) {
	const op = "storage.mysql.GetTemplate"

	row := s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = ?`, id)

	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: template %s: %w", op, id, storage.ErrTemplateNotFound)
		}
		return nil, fmt.Errorf("%s: template %s: %w", op, id, err)
	}

	return &t, nil
}

func (s *Storage) GetAllTemplates(ctx context.Context) ([]storage.Template, error) {
	const op = "storage.mysql.GetAllTemplates"

	rows, err := s.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	templates := []storage.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate templates: %w", op, err)
	}

	return templates, nil
}

func marshalTemplate(t storage.Template) (articles, operations []byte, err error) {
	if t.ArticleNumbers != nil {
		articles, err = json.Marshal(t.ArticleNumbers)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal article numbers: %w", err)
		}
	}

	operations, err = json.Marshal(t.Operations)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal operations: %w", err)
	}

	return articles, operations, nil
}

func (s *Storage) CreateTemplate(ctx context.Context, t storage.Template) error {
	const op = "storage.mysql.CreateTemplate"

	articles, operations, err := marshalTemplate(t)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO templates (`+templateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.NameNp, t.ArticleType, t.Category, t.IsCustom, articles, operations, t.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: template %s: %w", op, t.ID, storage.ErrTemplateExists)
		}
		return fmt.Errorf("%s: insert template %s: %w", op, t.ID, err)
	}

	return nil
}

func (s *Storage) UpdateTemplate(ctx context.Context, id string, t storage.Template) error {
	const op = "storage.mysql.UpdateTemplate"

	articles, operations, err := marshalTemplate(t)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE templates SET name = ?, name_np = ?, article_type = ?, category = ?, is_custom = ?,
			article_numbers = ?, operations = ?, is_active = ?
		WHERE id = ?`,
		t.Name, t.NameNp, t.ArticleType, t.Category, t.IsCustom, articles, operations, t.IsActive, id)
	if err != nil {
		return fmt.Errorf("%s: update template %s: %w", op, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: template %s: %w", op, id, storage.ErrTemplateNotFound)
	}

	return nil
}
