package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/planner"
	"github.com/matzehuels/seatplan/pkg/render"
	"github.com/matzehuels/seatplan/pkg/seating"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// Output formats.
const (
	formatSVG      = "svg"      // built-in floor plan renderer
	formatDOT      = "dot"      // Graphviz source with pinned positions
	formatGraphviz = "graphviz" // DOT laid out by Graphviz, as SVG
	formatPDF      = "pdf"
	formatPNG      = "png"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string  // output file; stdout when empty
	format    string  // one of the format* constants; guessed from output
	wedding   string  // wedding whose seating is drawn
	names     bool    // print guest names next to occupied seats
	seatIDs   bool    // label empty seats with their id (dot, graphviz)
	highlight string  // comma-separated seat ids to highlight (svg)
	padding   float64 // margin around the content, in canvas units
	scale     float64 // PNG resolution multiplier
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{padding: 40, scale: 2}

	cmd := &cobra.Command{
		Use:   "render [layout-id]",
		Short: "Render a layout or a wedding's seating chart",
		Long: `Render a layout as SVG, Graphviz DOT, PDF or PNG.

With --wedding the wedding's seating is drawn on its selected layout, and the
layout argument may be omitted. PDF and PNG need rsvg-convert on the PATH.`,
		Example: `  seatplan render 5f0c... -o plan.svg
  seatplan render --wedding 9a1b... --names -o chart.pdf
  seatplan render 5f0c... -f graphviz > plan.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.wedding == "" {
				return errors.Validation("name a layout or pass --wedding")
			}
			user, err := c.user()
			if err != nil {
				return err
			}
			layoutID := ""
			if len(args) == 1 {
				layoutID = args[0]
			}
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				l, m, err := loadChart(cmd.Context(), svc, user, layoutID, opts.wedding)
				if err != nil {
					return err
				}
				data, err := renderChart(cmd.Context(), l, m, opts)
				if err != nil {
					return err
				}
				return writeOutput(opts.output, data)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "svg, dot, graphviz, pdf or png (default: from --output, else svg)")
	cmd.Flags().StringVarP(&opts.wedding, "wedding", "w", "", "draw this wedding's seating")
	cmd.Flags().BoolVar(&opts.names, "names", false, "show guest names")
	cmd.Flags().BoolVar(&opts.seatIDs, "seat-ids", false, "label empty seats with their ids (dot, graphviz)")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "comma-separated seat ids to highlight (svg)")
	cmd.Flags().Float64Var(&opts.padding, "padding", opts.padding, "margin around the plan")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution multiplier")

	return cmd
}

// loadChart resolves the layout to draw and, with a wedding, its seating.
func loadChart(ctx context.Context, svc *planner.Service, user, layoutID, weddingID string) (*venue.Layout, seating.Map, error) {
	var m seating.Map
	if weddingID != "" {
		w, err := svc.GetWedding(ctx, user, weddingID)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case w.SelectedLayoutID == "":
			return nil, nil, errors.Validation("wedding %s has no layout selected", weddingID)
		case layoutID == "":
			layoutID = w.SelectedLayoutID
		case layoutID != w.SelectedLayoutID:
			return nil, nil, errors.Validation("wedding %s is seated on layout %s, not %s", weddingID, w.SelectedLayoutID, layoutID)
		}
		m = w.Assignments
	}
	l, err := svc.GetLayout(ctx, user, layoutID)
	if err != nil {
		return nil, nil, err
	}
	return l, m, nil
}

func renderChart(ctx context.Context, l *venue.Layout, m seating.Map, opts renderOpts) ([]byte, error) {
	format := opts.format
	if format == "" {
		format = formatFromPath(opts.output)
	}

	switch format {
	case formatDOT:
		return []byte(render.ToDOT(l, render.DOTOptions{Assignments: m, ShowSeatIDs: opts.seatIDs})), nil
	case formatGraphviz:
		spin := newSpinnerWithContext(ctx, "Laying out with Graphviz...")
		spin.Start()
		defer spin.Stop()
		return render.RenderDOT(ctx, render.ToDOT(l, render.DOTOptions{Assignments: m, ShowSeatIDs: opts.seatIDs}))
	case formatSVG, formatPDF, formatPNG:
	default:
		return nil, errors.Validation("unknown format %q (want svg, dot, graphviz, pdf or png)", format)
	}

	svgOpts := []render.Option{render.WithTitle(l.Name), render.WithPadding(opts.padding)}
	if m != nil {
		svgOpts = append(svgOpts, render.WithAssignments(m))
	}
	if opts.names {
		svgOpts = append(svgOpts, render.WithGuestNames())
	}
	if opts.highlight != "" {
		svgOpts = append(svgOpts, render.WithHighlight(strings.Split(opts.highlight, ",")...))
	}
	svg := render.SVG(l, svgOpts...)

	switch format {
	case formatPDF:
		return render.ToPDF(ctx, svg)
	case formatPNG:
		return render.ToPNG(ctx, svg, opts.scale)
	}
	return svg, nil
}

// formatFromPath guesses the format from a file extension, defaulting to SVG.
func formatFromPath(path string) string {
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext {
	case formatDOT, "gv":
		return formatDOT
	case formatPDF, formatPNG:
		return ext
	default:
		return formatSVG
	}
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	printSuccess("Rendered")
	printFile(path)
	return nil
}
