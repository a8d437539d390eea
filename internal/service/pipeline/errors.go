package pipeline

import "errors"

// ErrInvalidInput marks input the pipeline refuses to expand: missing
// identity fields or a template without operations.
var ErrInvalidInput = errors.New("invalid input")

const (
	WarnRatioMismatch     = "ratio_length_mismatch"
	WarnMissingSizeConfig = "missing_size_config"
	WarnNoBundles         = "no_bundles"
	WarnNoWorkItems       = "no_work_items"
	WarnUnknownSkill      = "unknown_skill_level"
)

// Warning is a non-fatal diagnostic produced when a fallback value was used.
type Warning struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	ArticleNumber string `json:"article_number,omitempty"`
	RollNumber    int    `json:"roll_number,omitempty"`
}
