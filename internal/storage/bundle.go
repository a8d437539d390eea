package storage

type Bundle struct {
	BundleID      string `json:"bundle_id"`
	RollID        string `json:"roll_id"`
	RollNumber    int    `json:"roll_number"`
	LotNumber     string `json:"lot_number"`
	FabricName    string `json:"fabric_name"`
	ArticleNumber string `json:"article_number"`
	ArticleName   string `json:"article_name"`
	Color         string `json:"color"`
	Size          string `json:"size"`
	Layers        int    `json:"layers"`
	Ratio         int    `json:"ratio"`
	Pieces        int    `json:"pieces"`
	Status        string `json:"status"`
	Priority      string `json:"priority"`
}

// Key is the composite identity of a bundle before it gets a bundle id.
func (b Bundle) Key() string {
	return b.RollID + b.ArticleNumber + b.Size
}
