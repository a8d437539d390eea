package pipeline

import (
	"cmp"
	"fmt"
	"strings"

	"garment-erp/internal/constants"
	"garment-erp/internal/storage"
)

// BundleIDSource names the index-th (1-based) bundle of a lot.
type BundleIDSource interface {
	BundleID(lotNumber string, index int) string
}

// SequentialBundleIDs produces "<lot>-B<index>" with the index zero-padded
// to Width digits.
type SequentialBundleIDs struct {
	Width int
}

func (s SequentialBundleIDs) BundleID(lotNumber string, index int) string {
	width := s.Width
	if width <= 0 {
		width = 3
	}
	return fmt.Sprintf("%s-B%0*d", lotNumber, width, index)
}

// ExpandLotToBundles emits one bundle per (roll, article, size) with a
// positive piece count, in roll, article and size order. An article without
// sizes or ratios gets a single FREE bundle of one piece per layer, matching
// CalculateRollPieces. Bundle ids are assigned in a final pass. An empty
// result comes with a WarnNoBundles warning.
func ExpandLotToBundles(lot storage.Lot, ids BundleIDSource) ([]storage.Bundle, []Warning, error) {
	const op = "pipeline.ExpandLotToBundles"

	if lot.LotNumber == "" {
		return nil, nil, fmt.Errorf("%s: lot number is empty: %w", op, ErrInvalidInput)
	}
	for i, a := range lot.Articles {
		if a.ArticleNumber == "" {
			return nil, nil, fmt.Errorf("%s: article %d has no article number: %w", op, i+1, ErrInvalidInput)
		}
	}
	if ids == nil {
		ids = SequentialBundleIDs{}
	}

	var (
		bundles  []storage.Bundle
		warnings []Warning
	)

	for _, roll := range lot.Rolls {
		if roll.LayerCount <= 0 {
			continue
		}

		for _, article := range lot.Articles {
			bundle := storage.Bundle{
				RollID:        roll.ID,
				RollNumber:    roll.RollNumber,
				LotNumber:     lot.LotNumber,
				FabricName:    lot.FabricName,
				ArticleNumber: article.ArticleNumber,
				ArticleName:   article.StyleName,
				Color:         roll.ColorName,
				Layers:        roll.LayerCount,
				Status:        constants.BundleReadyForCutting,
				Priority:      constants.PriorityNormal,
			}

			sizes, ratios, ok := articleRatios(lot.SizeConfig, article.ArticleNumber)
			if !ok {
				bundle.Size = constants.SizeFree
				bundle.Ratio = 1
				bundle.Pieces = roll.LayerCount
				bundles = append(bundles, bundle)
				continue
			}

			for i, size := range sizes {
				pieces := ratios[i] * roll.LayerCount
				if pieces <= 0 {
					continue
				}

				bundle.Size = size
				bundle.Ratio = ratios[i]
				bundle.Pieces = pieces
				bundles = append(bundles, bundle)
			}
		}
	}

	for _, article := range lot.Articles {
		if _, _, ok := articleRatios(lot.SizeConfig, article.ArticleNumber); !ok {
			warnings = append(warnings, Warning{
				Code:          WarnMissingSizeConfig,
				Message:       fmt.Sprintf("article %s has no sizes or ratios, cut as %s at 1 piece per layer", article.ArticleNumber, constants.SizeFree),
				ArticleNumber: article.ArticleNumber,
			})
		}
	}

	for i := range bundles {
		bundles[i].BundleID = ids.BundleID(lot.LotNumber, i+1)
		bundles[i].Status = constants.BundleCutReady
	}

	if len(bundles) == 0 {
		warnings = append(warnings, Warning{
			Code:    WarnNoBundles,
			Message: fmt.Sprintf("lot %s produced no bundles: %d rolls, %d articles", lot.LotNumber, len(lot.Rolls), len(lot.Articles)),
		})
		return []storage.Bundle{}, warnings, nil
	}

	return bundles, warnings, nil
}

// CompareBundleIDs orders bundle ids of one lot by their sequence number.
// Sequential ids share the lot prefix, so a longer id carries a larger number
// even after it outgrows the padding (L-B999 < L-B1000).
func CompareBundleIDs(a, b string) int {
	if len(a) != len(b) {
		return cmp.Compare(len(a), len(b))
	}
	return strings.Compare(a, b)
}

// TotalPieces sums the pieces of a bundle set.
func TotalPieces(bundles []storage.Bundle) int {
	total := 0
	for _, b := range bundles {
		total += b.Pieces
	}
	return total
}
