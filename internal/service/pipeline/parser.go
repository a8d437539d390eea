package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"garment-erp/internal/storage"
)

var (
	separators    = regexp.MustCompile(`[;,|]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	colonRun      = regexp.MustCompile(`:{2,}`)
)

// ParseTokens splits a human-typed list of sizes or ratios. Any of ":;,|"
// separates tokens; without one of them the input is split on whitespace,
// so "M" and "S M L" both work. Whitespace inside a separated token is kept
// (collapsed) so names like "Free Size" survive.
func ParseTokens(input string) []string {
	if strings.TrimSpace(input) == "" {
		return []string{}
	}

	if !strings.ContainsAny(input, ":;,|") {
		return strings.Fields(input)
	}

	s := separators.ReplaceAllString(input, ":")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = colonRun.ReplaceAllString(s, ":")
	s = strings.TrimSpace(s)

	tokens := make([]string, 0, strings.Count(s, ":")+1)
	for _, t := range strings.Split(s, ":") {
		t = strings.TrimSpace(t)
		if t != "" {
			tokens = append(tokens, t)
		}
	}

	return tokens
}

func JoinTokens(tokens []string) string {
	return strings.Join(tokens, ":")
}

// ReconcileRatios pads ratios with "1" or truncates them so that there is
// exactly one ratio per size.
func ReconcileRatios(sizes, ratios []string) []string {
	out := make([]string, len(sizes))
	for i := range sizes {
		if i < len(ratios) {
			out[i] = ratios[i]
		} else {
			out[i] = "1"
		}
	}
	return out
}

// ParseRatios coerces ratio tokens to integers. Non-numeric and negative
// tokens become 0.
func ParseRatios(tokens []string) []int {
	ratios := make([]int, len(tokens))
	for i, t := range tokens {
		n, err := strconv.Atoi(t)
		if err != nil || n < 0 {
			n = 0
		}
		ratios[i] = n
	}
	return ratios
}

// ReconcileSizeConfig re-joins a parsed, reconciled size/ratio pair. A warning
// is returned when the ratio count had to be adjusted.
func ReconcileSizeConfig(articleNumber string, cfg storage.SizeConfig) (storage.SizeConfig, *Warning) {
	sizes := ParseTokens(cfg.Sizes)
	ratios := ParseTokens(cfg.Ratios)
	reconciled := ReconcileRatios(sizes, ratios)

	out := storage.SizeConfig{
		Sizes:  JoinTokens(sizes),
		Ratios: JoinTokens(reconciled),
	}

	if len(ratios) == len(sizes) {
		return out, nil
	}

	return out, &Warning{
		Code:          WarnRatioMismatch,
		Message:       fmt.Sprintf("%d sizes but %d ratios, ratios adjusted to %q", len(sizes), len(ratios), out.Ratios),
		ArticleNumber: articleNumber,
	}
}
