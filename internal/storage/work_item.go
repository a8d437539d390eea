package storage

import "time"

// WorkItem is one bundle's instance of one template operation.
type WorkItem struct {
	ID               string     `json:"id"`
	BundleID         string     `json:"bundle_id"`
	LotNumber        string     `json:"lot_number"`
	TemplateID       string     `json:"template_id"`
	ArticleNumber    string     `json:"article_number"`
	ArticleName      string     `json:"article_name"`
	Color            string     `json:"color"`
	Size             string     `json:"size"`
	Pieces           int        `json:"pieces"`
	OperationID      string     `json:"operation_id"`
	OperationName    string     `json:"operation_name"`
	OperationNameNp  string     `json:"operation_name_np"`
	Sequence         int        `json:"sequence"`
	MachineType      string     `json:"machine_type"`
	SkillLevel       string     `json:"skill_level"`
	EstimatedTime    float64    `json:"estimated_time"`
	Rate             float64    `json:"rate"`
	TotalEarnings    float64    `json:"total_earnings"`
	Dependencies     []string   `json:"dependencies"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	AssignedOperator *int64     `json:"assigned_operator"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

type WorkItemFilter struct {
	LotNumber  string
	OperatorID *int64
	Status     string
}
