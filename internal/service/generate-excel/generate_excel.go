package generate_excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"garment-erp/internal/storage"
)

const (
	bundleSheet   = "Bundles"
	workItemSheet = "Work items"
)

type GenerateExcelStorage interface {
	GetLot(ctx context.Context, lotNumber string) (*storage.Lot, error)
	GetBundlesByLot(ctx context.Context, lotNumber string) ([]storage.Bundle, error)
	GetWorkItems(ctx context.Context, filter storage.WorkItemFilter) ([]storage.WorkItem, error)
}

type GenerateExcelService struct {
	storage GenerateExcelStorage
}

func NewGenerateService(storage GenerateExcelStorage) *GenerateExcelService {
	return &GenerateExcelService{storage: storage}
}

// GenerateExcel builds the lot report: one row per bundle with a status
// column per operation, and the flat work item list on a second sheet.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, lotNumber string) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	var (
		lot     *storage.Lot
		bundles []storage.Bundle
		items   []storage.WorkItem
	)

	eg, gCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		lot, err = g.storage.GetLot(gCtx, lotNumber)
		return err
	})
	eg.Go(func() error {
		var err error
		bundles, err = g.storage.GetBundlesByLot(gCtx, lotNumber)
		return err
	})
	eg.Go(func() error {
		var err error
		items, err = g.storage.GetWorkItems(gCtx, storage.WorkItemFilter{LotNumber: lotNumber})
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("%s: fetch data: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bundleSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := f.NewSheet(workItemSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	writeBundleSheet(f, headerStyle, lot, bundles, items)
	writeWorkItemSheet(f, headerStyle, items)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func writeBundleSheet(f *excelize.File, headerStyle int, lot *storage.Lot, bundles []storage.Bundle, items []storage.WorkItem) {
	baseHeaders := []string{"Bundle", "Lot", "Fabric", "Roll", "Color", "Article", "Style", "Size", "Layers", "Ratio", "Pieces", "Status"}
	for i, name := range baseHeaders {
		f.SetCellValue(bundleSheet, cellName(i+1, 1), name)
	}

	// operation columns follow the base headers in first-seen sequence order
	opColMap := make(map[string]int)
	baseLen := len(baseHeaders)
	for _, it := range items {
		if _, ok := opColMap[it.OperationID]; ok {
			continue
		}
		colIdx := baseLen + len(opColMap) + 1
		opColMap[it.OperationID] = colIdx
		f.SetCellValue(bundleSheet, cellName(colIdx, 1), fmt.Sprintf("%d. %s", it.Sequence, it.OperationName))
	}

	lastCol := cellName(baseLen+len(opColMap), 1)
	f.SetCellStyle(bundleSheet, "A1", lastCol, headerStyle)

	byBundle := make(map[string][]storage.WorkItem)
	for _, it := range items {
		byBundle[it.BundleID] = append(byBundle[it.BundleID], it)
	}

	fabric := ""
	if lot != nil {
		fabric = lot.FabricName
	}

	total := 0
	for rowIdx, b := range bundles {
		rowNum := rowIdx + 2
		if b.FabricName != "" {
			fabric = b.FabricName
		}

		f.SetCellValue(bundleSheet, cellName(1, rowNum), b.BundleID)
		f.SetCellValue(bundleSheet, cellName(2, rowNum), b.LotNumber)
		f.SetCellValue(bundleSheet, cellName(3, rowNum), fabric)
		f.SetCellValue(bundleSheet, cellName(4, rowNum), b.RollNumber)
		f.SetCellValue(bundleSheet, cellName(5, rowNum), b.Color)
		f.SetCellValue(bundleSheet, cellName(6, rowNum), b.ArticleNumber)
		f.SetCellValue(bundleSheet, cellName(7, rowNum), b.ArticleName)
		f.SetCellValue(bundleSheet, cellName(8, rowNum), b.Size)
		f.SetCellValue(bundleSheet, cellName(9, rowNum), b.Layers)
		f.SetCellValue(bundleSheet, cellName(10, rowNum), b.Ratio)
		f.SetCellValue(bundleSheet, cellName(11, rowNum), b.Pieces)
		f.SetCellValue(bundleSheet, cellName(12, rowNum), b.Status)
		total += b.Pieces

		for _, it := range byBundle[b.BundleID] {
			if colIdx, ok := opColMap[it.OperationID]; ok {
				f.SetCellValue(bundleSheet, cellName(colIdx, rowNum), it.Status)
			}
		}
	}

	totalRow := len(bundles) + 2
	f.SetCellValue(bundleSheet, cellName(10, totalRow), "Total")
	f.SetCellValue(bundleSheet, cellName(11, totalRow), total)

	f.SetPanes(bundleSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	f.SetColWidth(bundleSheet, "A", "G", 15)
}

func writeWorkItemSheet(f *excelize.File, headerStyle int, items []storage.WorkItem) {
	headers := []string{"Work item", "Bundle", "Article", "Color", "Size", "Pieces", "Seq", "Operation", "Operation (NP)",
		"Machine", "Skill", "Minutes", "Rate", "Earnings", "Status", "Operator"}
	for i, name := range headers {
		f.SetCellValue(workItemSheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(workItemSheet, "A1", cellName(len(headers), 1), headerStyle)

	for rowIdx, it := range items {
		rowNum := rowIdx + 2
		f.SetCellValue(workItemSheet, cellName(1, rowNum), it.ID)
		f.SetCellValue(workItemSheet, cellName(2, rowNum), it.BundleID)
		f.SetCellValue(workItemSheet, cellName(3, rowNum), it.ArticleNumber)
		f.SetCellValue(workItemSheet, cellName(4, rowNum), it.Color)
		f.SetCellValue(workItemSheet, cellName(5, rowNum), it.Size)
		f.SetCellValue(workItemSheet, cellName(6, rowNum), it.Pieces)
		f.SetCellValue(workItemSheet, cellName(7, rowNum), it.Sequence)
		f.SetCellValue(workItemSheet, cellName(8, rowNum), it.OperationName)
		f.SetCellValue(workItemSheet, cellName(9, rowNum), it.OperationNameNp)
		f.SetCellValue(workItemSheet, cellName(10, rowNum), it.MachineType)
		f.SetCellValue(workItemSheet, cellName(11, rowNum), it.SkillLevel)
		f.SetCellValue(workItemSheet, cellName(12, rowNum), it.EstimatedTime)
		f.SetCellValue(workItemSheet, cellName(13, rowNum), it.Rate)
		f.SetCellValue(workItemSheet, cellName(14, rowNum), it.TotalEarnings)
		f.SetCellValue(workItemSheet, cellName(15, rowNum), it.Status)
		if it.AssignedOperator != nil {
			f.SetCellValue(workItemSheet, cellName(16, rowNum), *it.AssignedOperator)
		}
	}

	f.SetPanes(workItemSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	f.SetColWidth(workItemSheet, "A", "B", 20)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
