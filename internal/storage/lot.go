package storage

import "time"

const (
	LotDraft     = "draft"
	LotConverted = "converted"
)

// Lot is one fabric-cutting batch entered by a supervisor.
type Lot struct {
	ID          int64                 `json:"id"`
	LotNumber   string                `json:"lot_number" validate:"required"`
	FabricName  string                `json:"fabric_name"`
	FabricWidth string                `json:"fabric_width"`
	NepaliDate  string                `json:"nepali_date"`
	RollCount   int                   `json:"roll_count" validate:"min=0"`
	Articles    []Article             `json:"articles" validate:"required,min=1,dive"`
	SizeConfig  map[string]SizeConfig `json:"size_config"`
	Rolls       []Roll                `json:"rolls" validate:"dive"`
	Status      string                `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
}

type Article struct {
	ArticleNumber string `json:"article_number" validate:"required"`
	StyleName     string `json:"style_name"`
}

// SizeConfig keeps sizes and ratios as ":"-joined strings, the same form a
// supervisor types them in after reconciliation.
type SizeConfig struct {
	Sizes  string `json:"sizes"`
	Ratios string `json:"ratios"`
}

type Roll struct {
	ID           string  `json:"id"`
	RollNumber   int     `json:"roll_number"`
	ColorName    string  `json:"color_name"`
	LayerCount   int     `json:"layer_count" validate:"min=0"`
	MarkedWeight float64 `json:"marked_weight"`
	ActualWeight float64 `json:"actual_weight"`
	Pieces       int     `json:"pieces"`
}

// TotalPieces sums the derived pieces of every roll.
func (l *Lot) TotalPieces() int {
	total := 0
	for _, r := range l.Rolls {
		total += r.Pieces
	}
	return total
}
