package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/geometry"
)

// seatsCommand previews the chair positions generated for a table, without
// touching the store.
func (c *CLI) seatsCommand() *cobra.Command {
	var (
		shape    string
		width    float64
		height   float64
		radius   float64
		capacity int
	)

	cmd := &cobra.Command{
		Use:   "seats",
		Short: "Preview generated seat positions for a table",
		Long: `Print the seat positions a table of the given shape and capacity receives,
relative to the table center.

Rectangles spread ceil(capacity/4) slots over each side (top, bottom, left,
right) and keep the first capacity of them. Circles space seats evenly,
starting on the positive x axis.`,
		Example: `  seatplan seats --shape rect --width 240 --height 60 --capacity 10
  seatplan seats --shape circle --radius 50 --capacity 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := geometry.Shape(shape)
			if !s.Valid() {
				return errors.Validation("shape must be rect or circle, got %q", shape)
			}
			if capacity < 0 {
				return errors.Validation("capacity cannot be negative")
			}
			size := geometry.Size{Width: width, Height: height, Radius: radius}
			pts := geometry.GenerateSeats(s, size, capacity)

			rows := make([][]string, 0, len(pts))
			for i, p := range pts {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					fmt.Sprintf("%.2f", p.X),
					fmt.Sprintf("%.2f", p.Y),
				})
			}
			printTable([]string{"Seat", "X", "Y"}, rows, "No seats")
			printDetail("%d seats around a %s table", len(pts), shape)
			return nil
		},
	}

	cmd.Flags().StringVar(&shape, "shape", string(geometry.ShapeRect), "table shape (rect or circle)")
	cmd.Flags().Float64Var(&width, "width", 200, "rectangle width")
	cmd.Flags().Float64Var(&height, "height", 100, "rectangle height")
	cmd.Flags().Float64Var(&radius, "radius", 60, "circle radius")
	cmd.Flags().IntVar(&capacity, "capacity", 8, "number of seats")

	return cmd
}
