package production

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"garment-erp/internal/constants"
	"garment-erp/internal/service/pipeline"
	"garment-erp/internal/storage"
)

var ErrBundlesExist = storage.ErrBundlesExist

type ProductionStorage interface {
	SaveLot(ctx context.Context, lot storage.Lot) (int64, error)
	GetLot(ctx context.Context, lotNumber string) (*storage.Lot, error)
	MarkLotConverted(ctx context.Context, lotNumber string) error

	SaveBundles(ctx context.Context, bundles []storage.Bundle) error
	GetBundlesByLot(ctx context.Context, lotNumber string) ([]storage.Bundle, error)

	GetTemplate(ctx context.Context, id string) (*storage.Template, error)

	SaveWorkItems(ctx context.Context, items []storage.WorkItem) error
	GetWorkItems(ctx context.Context, filter storage.WorkItemFilter) ([]storage.WorkItem, error)
	CompleteWorkItem(ctx context.Context, id string, at time.Time, release func([]storage.WorkItem) []string) ([]string, error)
}

type Service struct {
	storage ProductionStorage
	log     *slog.Logger
	ids     pipeline.BundleIDSource
	now     func() time.Time
	newID   func() string
}

func NewService(storage ProductionStorage, log *slog.Logger, bundleIDWidth int) *Service {
	return &Service{
		storage: storage,
		log:     log,
		ids:     pipeline.SequentialBundleIDs{Width: bundleIDWidth},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

type LotResult struct {
	Lot         storage.Lot        `json:"lot"`
	TotalPieces int                `json:"total_pieces"`
	Warnings    []pipeline.Warning `json:"warnings"`
}

type BundleResult struct {
	LotNumber   string             `json:"lot_number"`
	Bundles     []storage.Bundle   `json:"bundles"`
	TotalPieces int                `json:"total_pieces"`
	Warnings    []pipeline.Warning `json:"warnings"`
}

type WorkItemResult struct {
	LotNumber   string                `json:"lot_number"`
	TemplateID  string                `json:"template_id"`
	WorkItems   []storage.WorkItem    `json:"work_items"`
	Skipped     int                   `json:"skipped"`
	Warnings    []pipeline.Warning    `json:"warnings"`
	Diagnostics *pipeline.Diagnostics `json:"diagnostics,omitempty"`
}

func (s *Service) logWarnings(op string, warnings []pipeline.Warning) {
	for _, w := range warnings {
		s.log.Warn(w.Message,
			slog.String("op", op),
			slog.String("code", w.Code),
			slog.String("article_number", w.ArticleNumber),
			slog.Int("roll_number", w.RollNumber),
		)
	}
}

// PreviewLot normalises a lot without storing it.
func (s *Service) PreviewLot(lot storage.Lot) (LotResult, error) {
	normalized, warnings, err := pipeline.NormalizeLot(lot, s.newID)
	if err != nil {
		return LotResult{}, err
	}

	return LotResult{Lot: normalized, TotalPieces: normalized.TotalPieces(), Warnings: warnings}, nil
}

func (s *Service) CreateLot(ctx context.Context, lot storage.Lot) (LotResult, error) {
	const op = "service.production.CreateLot"

	res, err := s.PreviewLot(lot)
	if err != nil {
		return LotResult{}, fmt.Errorf("%s: %w", op, err)
	}
	res.Lot.Status = storage.LotDraft

	id, err := s.storage.SaveLot(ctx, res.Lot)
	if err != nil {
		return LotResult{}, fmt.Errorf("%s: %w", op, err)
	}
	res.Lot.ID = id

	s.logWarnings(op, res.Warnings)

	return res, nil
}

// GenerateBundles cuts a stored lot into bundles and stores them. A lot is
// converted once; an empty result is returned with warnings and nothing is
// stored.
func (s *Service) GenerateBundles(ctx context.Context, lotNumber string) (BundleResult, error) {
	const op = "service.production.GenerateBundles"

	var (
		lot      *storage.Lot
		existing []storage.Bundle
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lot, err = s.storage.GetLot(gCtx, lotNumber)
		if err != nil {
			return fmt.Errorf("lot: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		existing, err = s.storage.GetBundlesByLot(gCtx, lotNumber)
		if err != nil {
			return fmt.Errorf("bundles: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return BundleResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if len(existing) > 0 {
		return BundleResult{}, fmt.Errorf("%s: lot %s has %d bundles: %w", op, lotNumber, len(existing), ErrBundlesExist)
	}

	bundles, warnings, err := pipeline.ExpandLotToBundles(*lot, s.ids)
	if err != nil {
		return BundleResult{}, fmt.Errorf("%s: %w", op, err)
	}
	s.logWarnings(op, warnings)

	res := BundleResult{
		LotNumber:   lot.LotNumber,
		Bundles:     bundles,
		TotalPieces: pipeline.TotalPieces(bundles),
		Warnings:    warnings,
	}

	if len(bundles) == 0 {
		return res, nil
	}

	if err := s.storage.SaveBundles(ctx, bundles); err != nil {
		return BundleResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.storage.MarkLotConverted(ctx, lot.LotNumber); err != nil {
		return BundleResult{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("bundles generated",
		slog.String("lot_number", lot.LotNumber),
		slog.Int("bundles", len(bundles)),
		slog.Int("pieces", res.TotalPieces),
	)

	return res, nil
}

// GenerateWorkItems expands the lot's bundles with a template. Work items
// that already exist for the lot are skipped, so a lot can be expanded with
// several article-scoped templates.
func (s *Service) GenerateWorkItems(ctx context.Context, lotNumber, templateID string) (WorkItemResult, error) {
	const op = "service.production.GenerateWorkItems"

	var (
		bundles  []storage.Bundle
		template *storage.Template
		existing []storage.WorkItem
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bundles, err = s.storage.GetBundlesByLot(gCtx, lotNumber)
		if err != nil {
			return fmt.Errorf("bundles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		template, err = s.storage.GetTemplate(gCtx, templateID)
		if err != nil {
			return fmt.Errorf("template: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		existing, err = s.storage.GetWorkItems(gCtx, storage.WorkItemFilter{LotNumber: lotNumber})
		if err != nil {
			return fmt.Errorf("work items: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return WorkItemResult{}, fmt.Errorf("%s: %w", op, err)
	}

	items, warnings, err := pipeline.ExpandBundlesToWorkItems(bundles, *template, s.now)
	if err != nil {
		return WorkItemResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res := WorkItemResult{
		LotNumber:  lotNumber,
		TemplateID: template.ID,
		Warnings:   warnings,
	}

	if len(items) == 0 {
		d := pipeline.DiagnoseNoWorkItems(bundles, *template)
		res.Diagnostics = &d
		res.WorkItems = []storage.WorkItem{}
		s.log.Warn("no work items created, check template and bundle compatibility",
			slog.String("op", op),
			slog.String("lot_number", lotNumber),
			slog.Int("bundle_count", d.BundleCount),
			slog.String("template_id", d.TemplateID),
			slog.String("template_article_type", d.TemplateArticleType),
			slog.Any("template_article_scope", d.TemplateArticleScope),
			slog.Any("bundle_articles", d.BundleArticles),
		)
		return res, nil
	}
	s.logWarnings(op, warnings)

	seen := make(map[string]bool, len(existing))
	for _, w := range existing {
		seen[w.ID] = true
	}

	fresh := make([]storage.WorkItem, 0, len(items))
	for _, it := range items {
		if seen[it.ID] {
			res.Skipped++
			continue
		}
		fresh = append(fresh, it)
	}
	res.WorkItems = fresh

	if len(fresh) > 0 {
		if err := s.storage.SaveWorkItems(ctx, fresh); err != nil {
			return WorkItemResult{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	s.log.Info("work items generated",
		slog.String("lot_number", lotNumber),
		slog.String("template_id", template.ID),
		slog.Int("created", len(fresh)),
		slog.Int("skipped", res.Skipped),
	)

	return res, nil
}

// CompleteWorkItem marks a work item completed and returns the ids of the
// work items of the same bundle that became ready. Completion and release are
// one storage transaction. Completing an already completed item repeats the
// release, so a call that failed can be retried.
func (s *Service) CompleteWorkItem(ctx context.Context, id string) ([]string, error) {
	const op = "service.production.CompleteWorkItem"

	released, err := s.storage.CompleteWorkItem(ctx, id, s.now(), pipeline.ReleaseDependents)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if released == nil {
		released = []string{}
	}

	s.log.Info("work item completed", slog.String("id", id), slog.Int("released", len(released)))

	return released, nil
}

func (s *Service) OperatorEarnings(ctx context.Context, operatorID int64) (storage.Earnings, error) {
	const op = "service.production.OperatorEarnings"

	items, err := s.storage.GetWorkItems(ctx, storage.WorkItemFilter{OperatorID: &operatorID, Status: constants.WorkCompleted})
	if err != nil {
		return storage.Earnings{}, fmt.Errorf("%s: %w", op, err)
	}

	return SummarizeEarnings(operatorID, items), nil
}

// SummarizeEarnings totals completed work items per operator and per lot.
// Lots keep the order in which they first appear.
func SummarizeEarnings(operatorID int64, items []storage.WorkItem) storage.Earnings {
	e := storage.Earnings{
		OperatorID: operatorID,
		Minutes:    decimal.Zero,
		Amount:     decimal.Zero,
		ByLot:      []storage.LotEarnings{},
	}

	lotIndex := map[string]int{}
	for _, it := range items {
		if it.Status != constants.WorkCompleted {
			continue
		}

		pieces := decimal.NewFromInt(int64(it.Pieces))
		amount := pieces.Mul(decimal.NewFromFloat(it.Rate))
		if it.Rate == 0 && it.TotalEarnings != 0 {
			amount = decimal.NewFromFloat(it.TotalEarnings)
		}

		e.CompletedItems++
		e.Pieces += it.Pieces
		e.Minutes = e.Minutes.Add(decimal.NewFromFloat(it.EstimatedTime))
		e.Amount = e.Amount.Add(amount)

		i, ok := lotIndex[it.LotNumber]
		if !ok {
			i = len(e.ByLot)
			lotIndex[it.LotNumber] = i
			e.ByLot = append(e.ByLot, storage.LotEarnings{LotNumber: it.LotNumber, Amount: decimal.Zero})
		}
		e.ByLot[i].Pieces += it.Pieces
		e.ByLot[i].Amount = e.ByLot[i].Amount.Add(amount)
	}

	return e
}
