package pipeline

import (
	"garment-erp/internal/constants"
	"garment-erp/internal/storage"
)

func isCustom(t storage.Template) bool {
	return t.IsCustom || t.ArticleType == constants.ArticleTypeCustom
}

// IsTemplateApplicable decides whether template t can be expanded for bundle b.
// Universal templates apply to everything. Custom templates apply to the
// article numbers they list, or to everything when they list none. Category
// templates are accepted without comparing categories, since bundles carry no
// garment category.
func IsTemplateApplicable(t storage.Template, b storage.Bundle) bool {
	if t.ArticleType == constants.ArticleTypeUniversal || constants.UniversalTemplateIDs[t.ID] {
		return true
	}

	if isCustom(t) {
		if len(t.ArticleNumbers) == 0 {
			return true
		}
		for _, n := range t.ArticleNumbers {
			if n == b.ArticleNumber {
				return true
			}
		}
		return false
	}

	return true
}
