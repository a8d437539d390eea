package pipeline

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"garment-erp/internal/constants"
	"garment-erp/internal/storage"
)

// Diagnostics describes why a bundle set and a template produced no work items.
type Diagnostics struct {
	BundleCount          int      `json:"bundle_count"`
	TemplateID           string   `json:"template_id"`
	TemplateArticleType  string   `json:"template_article_type"`
	TemplateArticleScope []string `json:"template_article_scope"`
	BundleArticles       []string `json:"bundle_articles"`
}

func WorkItemID(bundleID, operationID string) string {
	return bundleID + "-" + operationID
}

// ExpandBundlesToWorkItems creates one work item per applicable bundle and
// template operation, sorted by bundle id then operation sequence. Sequence 1
// starts ready, every other operation waits on its dependencies. Operations
// without explicit dependencies depend on the operation with the preceding
// sequence number. now stamps CreatedAt.
func ExpandBundlesToWorkItems(bundles []storage.Bundle, t storage.Template, now func() time.Time) ([]storage.WorkItem, []Warning, error) {
	const op = "pipeline.ExpandBundlesToWorkItems"

	if len(t.Operations) == 0 {
		return nil, nil, fmt.Errorf("%s: template %q has no operations: %w", op, t.ID, ErrInvalidInput)
	}

	bySequence := make(map[int]string, len(t.Operations))
	for i, o := range t.Operations {
		if o.ID == "" {
			return nil, nil, fmt.Errorf("%s: operation %d of template %q has no id: %w", op, i+1, t.ID, ErrInvalidInput)
		}
		bySequence[o.Sequence] = o.ID
	}

	for i, b := range bundles {
		switch {
		case b.BundleID == "":
			return nil, nil, fmt.Errorf("%s: bundle %d has no bundle id: %w", op, i+1, ErrInvalidInput)
		case b.ArticleNumber == "":
			return nil, nil, fmt.Errorf("%s: bundle %s has no article number: %w", op, b.BundleID, ErrInvalidInput)
		case b.LotNumber == "":
			return nil, nil, fmt.Errorf("%s: bundle %s has no lot number: %w", op, b.BundleID, ErrInvalidInput)
		}
	}

	if now == nil {
		now = time.Now
	}
	createdAt := now()

	var warnings []Warning
	skills := make([]string, len(t.Operations))
	for i, o := range t.Operations {
		level, ok := NormalizeSkillLevel(o.SkillLevel)
		if !ok {
			warnings = append(warnings, Warning{
				Code:    WarnUnknownSkill,
				Message: fmt.Sprintf("operation %s has unknown skill level %q, using %s", o.ID, o.SkillLevel, level),
			})
		}
		skills[i] = level
	}

	items := make([]storage.WorkItem, 0, len(bundles)*len(t.Operations))
	for _, b := range bundles {
		if !IsTemplateApplicable(t, b) {
			continue
		}

		priority := b.Priority
		if priority == "" {
			priority = constants.PriorityNormal
		}

		for i, o := range t.Operations {
			deps := o.Dependencies
			if len(deps) == 0 && o.Sequence > 1 {
				if prev, ok := bySequence[o.Sequence-1]; ok {
					deps = []string{prev}
				}
			}

			dependencies := make([]string, 0, len(deps))
			for _, d := range deps {
				dependencies = append(dependencies, WorkItemID(b.BundleID, d))
			}

			status := constants.WorkWaiting
			if o.Sequence == 1 {
				status = constants.WorkReady
			}

			pieces := float64(b.Pieces)
			items = append(items, storage.WorkItem{
				ID:              WorkItemID(b.BundleID, o.ID),
				BundleID:        b.BundleID,
				LotNumber:       b.LotNumber,
				TemplateID:      t.ID,
				ArticleNumber:   b.ArticleNumber,
				ArticleName:     b.ArticleName,
				Color:           b.Color,
				Size:            b.Size,
				Pieces:          b.Pieces,
				OperationID:     o.ID,
				OperationName:   o.NameEn,
				OperationNameNp: o.NameNp,
				Sequence:        o.Sequence,
				MachineType:     o.MachineType,
				SkillLevel:      skills[i],
				EstimatedTime:   pieces * o.EstimatedTimePerPiece,
				Rate:            o.Rate,
				TotalEarnings:   pieces * o.Rate,
				Dependencies:    dependencies,
				Status:          status,
				Priority:        priority,
				CreatedAt:       createdAt,
			})
		}
	}

	slices.SortStableFunc(items, func(a, b storage.WorkItem) int {
		return cmp.Or(
			cmp.Compare(a.LotNumber, b.LotNumber),
			CompareBundleIDs(a.BundleID, b.BundleID),
			cmp.Compare(a.Sequence, b.Sequence),
		)
	})

	if len(items) == 0 {
		d := DiagnoseNoWorkItems(bundles, t)
		msg := fmt.Sprintf("no work items created for %d bundles with template %s (%s, scope %v), bundle articles %v",
			d.BundleCount, d.TemplateID, d.TemplateArticleType, d.TemplateArticleScope, d.BundleArticles)
		warnings = append(warnings, Warning{Code: WarnNoWorkItems, Message: msg})
	}

	return items, warnings, nil
}

// DiagnoseNoWorkItems collects the context a supervisor needs to see why a
// template matched none of the bundles.
func DiagnoseNoWorkItems(bundles []storage.Bundle, t storage.Template) Diagnostics {
	seen := make(map[string]bool)
	articles := []string{}
	for _, b := range bundles {
		if !seen[b.ArticleNumber] {
			seen[b.ArticleNumber] = true
			articles = append(articles, b.ArticleNumber)
		}
	}

	scope := t.ArticleNumbers
	if scope == nil {
		scope = []string{}
	}

	articleType := t.ArticleType
	if isCustom(t) {
		articleType = constants.ArticleTypeCustom
	}

	return Diagnostics{
		BundleCount:          len(bundles),
		TemplateID:           t.ID,
		TemplateArticleType:  articleType,
		TemplateArticleScope: scope,
		BundleArticles:       articles,
	}
}

// ReleaseDependents returns the ids of waiting items whose dependencies are
// all completed. items is expected to hold every work item of one bundle.
func ReleaseDependents(items []storage.WorkItem) []string {
	status := make(map[string]string, len(items))
	for _, it := range items {
		status[it.ID] = it.Status
	}

	var ready []string
	for _, it := range items {
		if it.Status != constants.WorkWaiting {
			continue
		}

		done := true
		for _, d := range it.Dependencies {
			if status[d] != constants.WorkCompleted {
				done = false
				break
			}
		}
		if done {
			ready = append(ready, it.ID)
		}
	}

	return ready
}
