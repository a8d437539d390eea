package pipeline

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"garment-erp/internal/storage"
)

// NormalizeLot returns a copy of lot ready to be stored: article numbers
// trimmed and unique, size configs reconciled in article number order, rolls
// numbered, missing roll ids filled from newID and every roll's pieces
// recomputed. Size config keys that trim to the same article are rejected.
func NormalizeLot(lot storage.Lot, newID func() string) (storage.Lot, []Warning, error) {
	const op = "pipeline.NormalizeLot"

	lot.LotNumber = strings.TrimSpace(lot.LotNumber)
	if lot.LotNumber == "" {
		return storage.Lot{}, nil, fmt.Errorf("%s: lot number is empty: %w", op, ErrInvalidInput)
	}

	var warnings []Warning

	seen := make(map[string]bool, len(lot.Articles))
	articles := make([]storage.Article, 0, len(lot.Articles))
	for i, a := range lot.Articles {
		a.ArticleNumber = strings.TrimSpace(a.ArticleNumber)
		if a.ArticleNumber == "" {
			return storage.Lot{}, nil, fmt.Errorf("%s: article %d has no article number: %w", op, i+1, ErrInvalidInput)
		}
		if seen[a.ArticleNumber] {
			return storage.Lot{}, nil, fmt.Errorf("%s: duplicate article %s: %w", op, a.ArticleNumber, ErrInvalidInput)
		}
		seen[a.ArticleNumber] = true
		articles = append(articles, a)
	}
	lot.Articles = articles

	trimmed := make(map[string]storage.SizeConfig, len(lot.SizeConfig))
	for key, cfg := range lot.SizeConfig {
		number := strings.TrimSpace(key)
		if _, dup := trimmed[number]; dup {
			return storage.Lot{}, nil, fmt.Errorf("%s: duplicate size config for article %q: %w", op, number, ErrInvalidInput)
		}
		trimmed[number] = cfg
	}

	sizeConfig := make(map[string]storage.SizeConfig, len(trimmed))
	for _, number := range slices.Sorted(maps.Keys(trimmed)) {
		reconciled, w := ReconcileSizeConfig(number, trimmed[number])
		if w != nil {
			warnings = append(warnings, *w)
		}
		sizeConfig[number] = reconciled
	}
	lot.SizeConfig = sizeConfig

	rolls := make([]storage.Roll, len(lot.Rolls))
	for i, r := range lot.Rolls {
		if r.ID == "" && newID != nil {
			r.ID = newID()
		}
		r.RollNumber = i + 1
		if r.LayerCount < 0 {
			r.LayerCount = 0
		}

		pieces, w := CalculateRollPieces(r, lot.Articles, lot.SizeConfig)
		r.Pieces = pieces
		warnings = append(warnings, w...)

		rolls[i] = r
	}
	lot.Rolls = rolls

	if len(lot.Rolls) > 0 {
		lot.RollCount = len(lot.Rolls)
	}

	return lot, warnings, nil
}
