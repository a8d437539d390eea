package pipeline

import (
	"strings"

	"garment-erp/internal/constants"
)

// NormalizeSkillLevel maps any of the skill spellings in use to easy, medium
// or hard. An empty value is medium. ok is false for unknown spellings, which
// also fall back to medium.
func NormalizeSkillLevel(level string) (string, bool) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return constants.SkillMedium, true
	}

	canonical, ok := constants.SkillLevels[level]
	if !ok {
		return constants.SkillMedium, false
	}

	return canonical, true
}
