package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campusgrid/orgcanvas/pkg/chart"
	"github.com/campusgrid/orgcanvas/pkg/config"
	"github.com/campusgrid/orgcanvas/pkg/org"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	configPath   string   // TOML configuration file
	fixture      string   // YAML fixture overriding the configured store
	output       string   // output file path (or base path for multiple formats)
	formats      []string // output formats: "svg", "dot", "json", "pdf", "png"
	detailed     bool     // richer labels in DOT output
	showInactive bool     // keep inactive schools in the chart
	noBadges     bool     // hide status badges on cards
	transparent  bool     // transparent SVG background
	refresh      bool     // bypass the tree cache
}

// newRenderCmd creates the render command for generating charts.
// It renders the full hierarchy (every level expanded) in one or more formats.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [company-id]",
		Short: "Render a company's organization chart",
		Long: `Render a company's full organization chart to SVG, DOT, JSON, PDF, or PNG.

Records come from the configured store, or from a YAML fixture when --fixture
is given. With a fixture the company ID argument may be omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := chart.ValidateFormats(opts.formats); err != nil {
				return err
			}
			companyID := ""
			if len(args) > 0 {
				companyID = args[0]
			}
			return runRender(cmd.Context(), companyID, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "configuration file")
	cmd.Flags().StringVar(&opts.fixture, "fixture", "", "YAML fixture file to render instead of the configured store")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show record details in DOT output")
	cmd.Flags().BoolVar(&opts.showInactive, "show-inactive", false, "include inactive schools")
	cmd.Flags().BoolVar(&opts.noBadges, "no-badges", false, "hide status badges")
	cmd.Flags().BoolVar(&opts.transparent, "transparent", false, "transparent SVG background")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the tree cache")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{chart.FormatSVG}
	}
	return strings.Split(s, ",")
}

func runRender(ctx context.Context, companyID string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	if companyID == "" {
		if opts.fixture == "" {
			return fmt.Errorf("company ID is required without --fixture")
		}
		company, err := org.ReadFixtureFile(opts.fixture)
		if err != nil {
			return err
		}
		companyID = company.ID
	}

	svc, err := newService(ctx, cfg, opts.fixture, logger)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close(ctx) }()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", companyID))
	spinner.Start()

	prog := newProgress(logger)
	result, err := svc.Execute(ctx, chart.Options{
		CompanyID:    companyID,
		ExpandAll:    true,
		ShowInactive: opts.showInactive,
		Refresh:      opts.refresh,
		Formats:      opts.formats,
		Detailed:     opts.detailed,
		NoBadges:     opts.noBadges,
		Transparent:  opts.transparent,
		Logger:       logger,
	})
	spinner.Stop()
	if err != nil {
		printError("Render failed: %v", err)
		return err
	}
	prog.done(fmt.Sprintf("Assembled %d nodes", result.Stats.NodeCount))

	printSuccess("Rendered %s", StyleHighlight.Render(companyID))
	printStats(result.Stats.NodeCount, len(result.Tree.Root().Children), result.CacheInfo.TreeHit)

	for _, format := range opts.formats {
		path := outputPath(opts.output, companyID, format, len(opts.formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// outputPath resolves where one artifact lands. A single format honors -o
// verbatim; multiple formats treat -o as a base path and append extensions.
func outputPath(output, companyID, format string, multi bool) string {
	if output == "" {
		return companyID + "." + format
	}
	if !multi {
		return output
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))
	return base + "." + format
}
