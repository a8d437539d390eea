package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"garment-erp/internal/storage"
)

func TestParseTokens_Separators(t *testing.T) {
	want := []string{"S", "M", "L"}

	for _, in := range []string{"S:M:L", "S;M;L", "S,M,L", "S|M|L", "S M L", " S ,M| L ;"} {
		assert.Equal(t, want, ParseTokens(in), "input %q", in)
	}
}

func TestParseTokens_SingleAndEmpty(t *testing.T) {
	assert.Equal(t, []string{"M"}, ParseTokens("M"))
	assert.Equal(t, []string{"M"}, ParseTokens("  M  "))
	assert.Equal(t, []string{}, ParseTokens(""))
	assert.Equal(t, []string{}, ParseTokens("   "))
	assert.Equal(t, []string{}, ParseTokens(":;,|"))
}

func TestParseTokens_MixedAndDoubled(t *testing.T) {
	assert.Equal(t, []string{"S", "M", "L", "XL"}, ParseTokens("S, M ;; L|XL"))
	assert.Equal(t, []string{"S", "M"}, ParseTokens(":S::M:"))
	// spaces inside a separated token are kept
	assert.Equal(t, []string{"Free Size", "XL"}, ParseTokens("Free   Size, XL"))
}

func TestParseTokens_Idempotent(t *testing.T) {
	inputs := []string{
		"S:M:L",
		"S;M,L|XL",
		"28 30 32 34",
		"1, 2 ; 3",
		"Free Size|XXL",
		"::XS:::S::",
		"M",
	}

	for _, in := range inputs {
		first := ParseTokens(in)
		assert.Equal(t, first, ParseTokens(JoinTokens(first)), "input %q", in)
	}
}

func TestReconcileRatios_Length(t *testing.T) {
	all := []string{"1", "2", "3", "4", "5", "6", "7"}

	for n := 0; n <= 5; n++ {
		sizes := make([]string, n)
		for r := 0; r <= len(all); r++ {
			got := ReconcileRatios(sizes, all[:r])
			assert.Len(t, got, n)
		}
	}
}

func TestReconcileRatios_PadAndTruncate(t *testing.T) {
	sizes := []string{"S", "M", "L"}

	assert.Equal(t, []string{"2", "1", "1"}, ReconcileRatios(sizes, []string{"2"}))
	assert.Equal(t, []string{"1", "2", "3"}, ReconcileRatios(sizes, []string{"1", "2", "3", "4", "5"}))
	assert.Equal(t, []string{"1", "1", "1"}, ReconcileRatios(sizes, nil))
}

func TestParseRatios(t *testing.T) {
	assert.Equal(t, []int{2, 0, 0, 3}, ParseRatios([]string{"2", "x", "-1", "3"}))
	assert.Equal(t, []int{}, ParseRatios([]string{}))
}

func TestReconcileSizeConfig(t *testing.T) {
	cfg, w := ReconcileSizeConfig("8085", storage.SizeConfig{Sizes: "S, M, L", Ratios: "1;2;1"})
	assert.Nil(t, w)
	assert.Equal(t, storage.SizeConfig{Sizes: "S:M:L", Ratios: "1:2:1"}, cfg)

	cfg, w = ReconcileSizeConfig("8085", storage.SizeConfig{Sizes: "S M L XL", Ratios: "2"})
	if assert.NotNil(t, w) {
		assert.Equal(t, WarnRatioMismatch, w.Code)
		assert.Equal(t, "8085", w.ArticleNumber)
	}
	assert.Equal(t, "2:1:1:1", cfg.Ratios)
}

func TestNormalizeSkillLevel(t *testing.T) {
	cases := map[string]string{
		"":             "medium",
		"easy":         "easy",
		"Beginner":     "easy",
		"intermediate": "medium",
		" high ":       "hard",
		"HARD":         "hard",
	}
	for in, want := range cases {
		got, ok := NormalizeSkillLevel(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	got, ok := NormalizeSkillLevel("wizard")
	assert.False(t, ok)
	assert.Equal(t, "medium", got)
}
