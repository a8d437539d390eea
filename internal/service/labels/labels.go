// Package labels renders printable bundle tickets. Every ticket carries a QR
// code holding the bundle as JSON, so the floor can scan a bundle into a
// work station.
package labels

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"garment-erp/internal/storage"
)

var ErrNoBundles = errors.New("no bundles to print")

// A4 sheet, 3 columns x 8 rows of tickets without gutters.
const (
	pageWidth     = 210.0
	pageHeight    = 297.0
	labelCols     = 3
	labelRows     = 8
	labelWidth    = pageWidth / labelCols
	labelHeight   = pageHeight / labelRows
	labelsPerPage = labelCols * labelRows
	qrSize        = 26.0
	labelPadding  = 2.5
)

// Ticket is the payload encoded into the QR code.
type Ticket struct {
	BundleID      string `json:"bundle_id"`
	LotNumber     string `json:"lot_number"`
	ArticleNumber string `json:"article_number"`
	Color         string `json:"color"`
	Size          string `json:"size"`
	Pieces        int    `json:"pieces"`
	RollNumber    int    `json:"roll_number"`
}

func TicketFor(b storage.Bundle) Ticket {
	return Ticket{
		BundleID:      b.BundleID,
		LotNumber:     b.LotNumber,
		ArticleNumber: b.ArticleNumber,
		Color:         b.Color,
		Size:          b.Size,
		Pieces:        b.Pieces,
		RollNumber:    b.RollNumber,
	}
}

type LabelStorage interface {
	GetBundlesByLot(ctx context.Context, lotNumber string) ([]storage.Bundle, error)
}

type Service struct {
	storage LabelStorage
}

func NewService(storage LabelStorage) *Service {
	return &Service{storage: storage}
}

func (s *Service) BundleLabels(ctx context.Context, lotNumber string) ([]byte, error) {
	const op = "service.labels.BundleLabels"

	bundles, err := s.storage.GetBundlesByLot(ctx, lotNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, bundles); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

// Render writes one ticket per bundle as a PDF.
func Render(w io.Writer, bundles []storage.Bundle) error {
	if len(bundles) == 0 {
		return ErrNoBundles
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, b := range bundles {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		pos := i % labelsPerPage
		x := float64(pos%labelCols) * labelWidth
		y := float64(pos/labelCols) * labelHeight

		if err := renderTicket(pdf, tr, x, y, TicketFor(b)); err != nil {
			return fmt.Errorf("bundle %s: %w", b.BundleID, err)
		}
	}

	return pdf.Output(w)
}

func renderTicket(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, t Ticket) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("qr code: %w", err)
	}

	img := "qr_" + t.BundleID
	pdf.RegisterImageOptionsReader(img, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(img, x+labelWidth-qrSize-labelPadding, y+(labelHeight-qrSize)/2, qrSize, qrSize,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 5, tr(t.BundleID), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	lines := []string{
		"Article " + t.ArticleNumber,
		"Size " + t.Size,
		t.Color,
		fmt.Sprintf("%d pcs", t.Pieces),
	}
	for i, line := range lines {
		pdf.SetXY(textX, y+labelPadding+7+float64(i)*4.5)
		pdf.CellFormat(textW, 4, tr(line), "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelHeight-labelPadding-3)
	pdf.CellFormat(textW, 3, tr(fmt.Sprintf("Lot %s / roll %d", t.LotNumber, t.RollNumber)), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	return pdf.Error()
}
