package storage

import "github.com/shopspring/decimal"

type Operator struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required"`
	NameNp      string `json:"name_np"`
	MachineType string `json:"machine_type"`
	SkillLevel  string `json:"skill_level"`
	IsActive    bool   `json:"is_active"`
}

type Assignment struct {
	WorkItemID string `json:"work_item_id"`
	OperatorID int64  `json:"operator_id" validate:"required,min=1"`
}

// Earnings is an operator's total over completed work items.
type Earnings struct {
	OperatorID     int64           `json:"operator_id"`
	CompletedItems int             `json:"completed_items"`
	Pieces         int             `json:"pieces"`
	Minutes        decimal.Decimal `json:"minutes"`
	Amount         decimal.Decimal `json:"amount"`
	ByLot          []LotEarnings   `json:"by_lot"`
}

type LotEarnings struct {
	LotNumber string          `json:"lot_number"`
	Pieces    int             `json:"pieces"`
	Amount    decimal.Decimal `json:"amount"`
}
