// Command wipctl runs the cutting pipeline on local JSON files, without a
// database: it parses size lists, expands a lot into bundles and bundles
// into work items.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"garment-erp/internal/service/pipeline"
	"garment-erp/internal/storage"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "wipctl",
		Short:         "Expand cutting lots into bundles and work items",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	log := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelWarn}))

	root.AddCommand(newParseCmd(out))
	root.AddCommand(newBundlesCmd(out, log))
	root.AddCommand(newWorkItemsCmd(out, log))

	return root
}

func newParseCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <input>",
		Short: "Split a size or ratio list into tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens := pipeline.ParseTokens(args[0])
			return writeJSON(out, map[string]any{
				"tokens":     tokens,
				"normalized": pipeline.JoinTokens(tokens),
			})
		},
	}
}

func newBundlesCmd(out io.Writer, log *slog.Logger) *cobra.Command {
	var (
		lotPath string
		width   int
	)

	cmd := &cobra.Command{
		Use:   "bundles",
		Short: "Expand a lot file into bundles",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundles, warnings, err := lotBundles(lotPath, width)
			if err != nil {
				return err
			}
			logWarnings(log, warnings)

			return writeJSON(out, map[string]any{
				"bundles":      bundles,
				"total_pieces": pipeline.TotalPieces(bundles),
			})
		},
	}

	cmd.Flags().StringVar(&lotPath, "lot", "", "lot JSON file")
	cmd.Flags().IntVar(&width, "width", 3, "zero padding of the bundle index")
	_ = cmd.MarkFlagRequired("lot")

	return cmd
}

func newWorkItemsCmd(out io.Writer, log *slog.Logger) *cobra.Command {
	var (
		lotPath      string
		templatePath string
		width        int
	)

	cmd := &cobra.Command{
		Use:   "work-items",
		Short: "Expand a lot file into work items with a template file",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundles, warnings, err := lotBundles(lotPath, width)
			if err != nil {
				return err
			}

			var t storage.Template
			if err := readJSON(templatePath, &t); err != nil {
				return err
			}

			items, itemWarnings, err := pipeline.ExpandBundlesToWorkItems(bundles, t, time.Now)
			if err != nil {
				return err
			}
			logWarnings(log, append(warnings, itemWarnings...))

			res := map[string]any{"work_items": items}
			if len(items) == 0 {
				res["diagnostics"] = pipeline.DiagnoseNoWorkItems(bundles, t)
			}

			return writeJSON(out, res)
		},
	}

	cmd.Flags().StringVar(&lotPath, "lot", "", "lot JSON file")
	cmd.Flags().StringVar(&templatePath, "template", "", "template JSON file")
	cmd.Flags().IntVar(&width, "width", 3, "zero padding of the bundle index")
	_ = cmd.MarkFlagRequired("lot")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

func lotBundles(path string, width int) ([]storage.Bundle, []pipeline.Warning, error) {
	var lot storage.Lot
	if err := readJSON(path, &lot); err != nil {
		return nil, nil, err
	}

	normalized, warnings, err := pipeline.NormalizeLot(lot, uuid.NewString)
	if err != nil {
		return nil, nil, err
	}

	bundles, bundleWarnings, err := pipeline.ExpandLotToBundles(normalized, pipeline.SequentialBundleIDs{Width: width})
	if err != nil {
		return nil, nil, err
	}

	if bundles == nil {
		bundles = []storage.Bundle{}
	}

	return bundles, append(warnings, bundleWarnings...), nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func logWarnings(log *slog.Logger, warnings []pipeline.Warning) {
	for _, w := range warnings {
		log.Warn(w.Message, slog.String("code", w.Code))
	}
}
