package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garment-erp/internal/storage"
)

var fixedNow = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

func twoStepTemplate() storage.Template {
	return storage.Template{
		ID:          "polo-basic",
		ArticleType: "universal",
		Operations: []storage.Operation{
			{ID: "op1", Sequence: 1, NameEn: "Shoulder join", MachineType: "overlock", EstimatedTimePerPiece: 1.0, Rate: 2.5, SkillLevel: "easy"},
			{ID: "op2", Sequence: 2, NameEn: "Side seam", MachineType: "flatlock", EstimatedTimePerPiece: 1.5, Rate: 3.0, SkillLevel: "high", Dependencies: []string{"op1"}},
		},
	}
}

func exampleBundles(t *testing.T) []storage.Bundle {
	t.Helper()
	bundles, _, err := ExpandLotToBundles(exampleLot(), nil)
	require.NoError(t, err)
	return bundles
}

func TestExpandBundlesToWorkItems_Example(t *testing.T) {
	items, warnings, err := ExpandBundlesToWorkItems(exampleBundles(t), twoStepTemplate(), fixedNow)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, items, 6)

	want := []struct {
		id       string
		status   string
		earnings float64
		time     float64
		deps     []string
	}{
		{"LOT-42-B001-op1", "ready", 25, 10, []string{}},
		{"LOT-42-B001-op2", "waiting", 30, 15, []string{"LOT-42-B001-op1"}},
		{"LOT-42-B002-op1", "ready", 50, 20, []string{}},
		{"LOT-42-B002-op2", "waiting", 60, 30, []string{"LOT-42-B002-op1"}},
		{"LOT-42-B003-op1", "ready", 25, 10, []string{}},
		{"LOT-42-B003-op2", "waiting", 30, 15, []string{"LOT-42-B003-op1"}},
	}

	for i, w := range want {
		it := items[i]
		assert.Equal(t, w.id, it.ID)
		assert.Equal(t, w.status, it.Status)
		assert.Equal(t, w.earnings, it.TotalEarnings)
		assert.Equal(t, w.time, it.EstimatedTime)
		assert.Equal(t, w.deps, it.Dependencies)
		assert.Nil(t, it.AssignedOperator)
		assert.Equal(t, fixedNow(), it.CreatedAt)
		assert.Equal(t, "normal", it.Priority)
		assert.Equal(t, "polo-basic", it.TemplateID)
	}

	assert.Equal(t, "easy", items[0].SkillLevel)
	assert.Equal(t, "hard", items[1].SkillLevel)
	assert.Equal(t, "M", items[2].Size)
	assert.Equal(t, "Side seam", items[1].OperationName)
}

func TestExpandBundlesToWorkItems_CountsAndReadiness(t *testing.T) {
	lot := exampleLot()
	lot.Rolls = append(lot.Rolls, storage.Roll{ID: "r2", ColorName: "Red", LayerCount: 3})
	bundles, _, err := ExpandLotToBundles(lot, nil)
	require.NoError(t, err)

	tpl := twoStepTemplate()
	tpl.Operations = append(tpl.Operations,
		storage.Operation{ID: "op3", Sequence: 3, EstimatedTimePerPiece: 0.25, Rate: 0.75},
		storage.Operation{ID: "op4", Sequence: 4, Rate: 1.2},
	)

	items, _, err := ExpandBundlesToWorkItems(bundles, tpl, fixedNow)
	require.NoError(t, err)
	assert.Len(t, items, len(bundles)*len(tpl.Operations))

	ready := map[string]int{}
	for _, it := range items {
		if it.Status == "ready" {
			ready[it.BundleID]++
			assert.Equal(t, 1, it.Sequence)
		} else {
			assert.Equal(t, "waiting", it.Status)
		}
		assert.Equal(t, float64(it.Pieces)*it.Rate, it.TotalEarnings)
	}
	for _, b := range bundles {
		assert.Equal(t, 1, ready[b.BundleID], b.BundleID)
	}
}

func TestExpandBundlesToWorkItems_ImplicitDependencies(t *testing.T) {
	tpl := twoStepTemplate()
	tpl.Operations[1].Dependencies = nil
	tpl.Operations = append(tpl.Operations, storage.Operation{ID: "press", Sequence: 3})

	items, _, err := ExpandBundlesToWorkItems(exampleBundles(t)[:1], tpl, fixedNow)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Empty(t, items[0].Dependencies)
	assert.Equal(t, []string{"LOT-42-B001-op1"}, items[1].Dependencies)
	assert.Equal(t, []string{"LOT-42-B001-op2"}, items[2].Dependencies)
}

func TestExpandBundlesToWorkItems_SortedByBundleThenSequence(t *testing.T) {
	bundles := exampleBundles(t)
	reversed := []storage.Bundle{bundles[2], bundles[0], bundles[1]}

	tpl := twoStepTemplate()
	tpl.Operations = []storage.Operation{tpl.Operations[1], tpl.Operations[0]}

	items, _, err := ExpandBundlesToWorkItems(reversed, tpl, fixedNow)
	require.NoError(t, err)

	var got []string
	for _, it := range items {
		got = append(got, it.ID)
	}
	assert.Equal(t, []string{
		"LOT-42-B001-op1", "LOT-42-B001-op2",
		"LOT-42-B002-op1", "LOT-42-B002-op2",
		"LOT-42-B003-op1", "LOT-42-B003-op2",
	}, got)
}

func TestExpandBundlesToWorkItems_OrderPastPadWidth(t *testing.T) {
	ids := SequentialBundleIDs{}
	var bundles []storage.Bundle
	for _, i := range []int{1000, 101, 999} {
		bundles = append(bundles, storage.Bundle{BundleID: ids.BundleID("L", i), LotNumber: "L", ArticleNumber: "8085", Pieces: 1})
	}

	tpl := twoStepTemplate()
	tpl.Operations = tpl.Operations[:1]

	items, _, err := ExpandBundlesToWorkItems(bundles, tpl, fixedNow)
	require.NoError(t, err)

	var got []string
	for _, it := range items {
		got = append(got, it.BundleID)
	}
	assert.Equal(t, []string{"L-B101", "L-B999", "L-B1000"}, got)
}

func TestExpandBundlesToWorkItems_CustomScope(t *testing.T) {
	bundles := exampleBundles(t)
	tpl := twoStepTemplate()
	tpl.ArticleType = "custom"
	tpl.ArticleNumbers = []string{"7777"}

	items, warnings, err := ExpandBundlesToWorkItems(bundles, tpl, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, items)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnNoWorkItems, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "polo-basic")

	d := DiagnoseNoWorkItems(bundles, tpl)
	assert.Equal(t, 3, d.BundleCount)
	assert.Equal(t, "custom", d.TemplateArticleType)
	assert.Equal(t, []string{"7777"}, d.TemplateArticleScope)
	assert.Equal(t, []string{"8085"}, d.BundleArticles)

	tpl.ArticleNumbers = []string{"7777", "8085"}
	items, _, err = ExpandBundlesToWorkItems(bundles, tpl, fixedNow)
	require.NoError(t, err)
	assert.Len(t, items, 6)
}

func TestExpandBundlesToWorkItems_InvalidInput(t *testing.T) {
	bundles := exampleBundles(t)

	tpl := twoStepTemplate()
	tpl.Operations = nil
	_, _, err := ExpandBundlesToWorkItems(bundles, tpl, fixedNow)
	assert.ErrorIs(t, err, ErrInvalidInput)

	tpl = twoStepTemplate()
	tpl.Operations[1].ID = ""
	_, _, err = ExpandBundlesToWorkItems(bundles, tpl, fixedNow)
	assert.ErrorIs(t, err, ErrInvalidInput)

	broken := append([]storage.Bundle{}, bundles...)
	broken[1].LotNumber = ""
	_, _, err = ExpandBundlesToWorkItems(broken, twoStepTemplate(), fixedNow)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExpandBundlesToWorkItems_UnknownSkill(t *testing.T) {
	tpl := twoStepTemplate()
	tpl.Operations[0].SkillLevel = "wizard"

	items, warnings, err := ExpandBundlesToWorkItems(exampleBundles(t), tpl, fixedNow)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnUnknownSkill, warnings[0].Code)
	assert.Equal(t, "medium", items[0].SkillLevel)
}

func TestIsTemplateApplicable(t *testing.T) {
	b := storage.Bundle{ArticleNumber: "8085"}

	assert.True(t, IsTemplateApplicable(storage.Template{ArticleType: "universal"}, b))
	assert.True(t, IsTemplateApplicable(storage.Template{ID: "universal-template", ArticleType: "tshirt"}, b))
	assert.True(t, IsTemplateApplicable(storage.Template{ArticleType: "tshirt"}, b))

	assert.True(t, IsTemplateApplicable(storage.Template{ArticleType: "custom"}, b))
	assert.True(t, IsTemplateApplicable(storage.Template{IsCustom: true, ArticleNumbers: []string{}}, b))
	assert.True(t, IsTemplateApplicable(storage.Template{ArticleType: "custom", ArticleNumbers: []string{"1", "8085"}}, b))
	assert.False(t, IsTemplateApplicable(storage.Template{ArticleType: "custom", ArticleNumbers: []string{"1"}}, b))
	assert.False(t, IsTemplateApplicable(storage.Template{IsCustom: true, ArticleType: "tshirt", ArticleNumbers: []string{"1"}}, b))
}

func TestReleaseDependents(t *testing.T) {
	items := []storage.WorkItem{
		{ID: "b-1", Status: "completed"},
		{ID: "b-2", Status: "waiting", Dependencies: []string{"b-1"}},
		{ID: "b-3", Status: "waiting", Dependencies: []string{"b-2"}},
		{ID: "b-4", Status: "waiting", Dependencies: []string{"b-1", "b-3"}},
		{ID: "b-5", Status: "ready"},
	}

	assert.Equal(t, []string{"b-2"}, ReleaseDependents(items))

	items[1].Status = "completed"
	items[2].Status = "completed"
	assert.Equal(t, []string{"b-4"}, ReleaseDependents(items))
}
