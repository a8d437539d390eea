package storage

// Template is an ordered sequence of sewing operations with scope metadata.
type Template struct {
	ID             string      `json:"id" validate:"required"`
	Name           string      `json:"name"`
	NameNp         string      `json:"name_np"`
	ArticleType    string      `json:"article_type"`
	Category       string      `json:"category"`
	IsCustom       bool        `json:"is_custom"`
	ArticleNumbers []string    `json:"article_numbers"`
	Operations     []Operation `json:"operations" validate:"required,min=1,dive"`
	IsActive       bool        `json:"is_active"`
}

type Operation struct {
	ID                    string   `json:"id" validate:"required"`
	Sequence              int      `json:"sequence" validate:"min=1"`
	NameEn                string   `json:"name_en"`
	NameNp                string   `json:"name_np"`
	MachineType           string   `json:"machine_type"`
	EstimatedTimePerPiece float64  `json:"estimated_time_per_piece" validate:"min=0"`
	Rate                  float64  `json:"rate" validate:"min=0"`
	SkillLevel            string   `json:"skill_level"`
	Dependencies          []string `json:"dependencies"`
}
