package pipeline

import (
	"fmt"

	"garment-erp/internal/storage"
)

// articleRatios returns the sizes of an article with one ratio per size.
// ok is false when the article has no entry, no sizes or no ratios. Such an
// article is cut as one free-size piece per layer.
func articleRatios(sizeConfig map[string]storage.SizeConfig, articleNumber string) ([]string, []int, bool) {
	cfg, found := sizeConfig[articleNumber]
	if !found {
		return nil, nil, false
	}

	sizes := ParseTokens(cfg.Sizes)
	ratios := ParseTokens(cfg.Ratios)
	if len(sizes) == 0 || len(ratios) == 0 {
		return nil, nil, false
	}

	return sizes, ParseRatios(ReconcileRatios(sizes, ratios)), true
}

// CalculateRollPieces returns the pieces cut from one roll: for every article
// the sum of its ratios times the roll's layer count. An article without
// sizes or ratios counts as one piece per layer and yields a warning.
func CalculateRollPieces(roll storage.Roll, articles []storage.Article, sizeConfig map[string]storage.SizeConfig) (int, []Warning) {
	if roll.LayerCount <= 0 || len(articles) == 0 {
		return 0, nil
	}

	var (
		total    int
		warnings []Warning
	)

	for _, a := range articles {
		_, ratios, ok := articleRatios(sizeConfig, a.ArticleNumber)
		if !ok {
			total += roll.LayerCount
			warnings = append(warnings, Warning{
				Code:          WarnMissingSizeConfig,
				Message:       fmt.Sprintf("article %s has no sizes or ratios, counted as 1 piece per layer", a.ArticleNumber),
				ArticleNumber: a.ArticleNumber,
				RollNumber:    roll.RollNumber,
			})
			continue
		}

		for _, r := range ratios {
			total += r * roll.LayerCount
		}
	}

	return total, warnings
}
