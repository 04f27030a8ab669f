package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seatplan/pkg/canvas"
	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/planner"
	"github.com/matzehuels/seatplan/pkg/seating"
)

// closeTimeout bounds the final flush after the editor exits.
const closeTimeout = 10 * time.Second

// editCommand opens the terminal seating editor on a wedding.
func (c *CLI) editCommand() *cobra.Command {
	var guestsFile string

	cmd := &cobra.Command{
		Use:   "edit <wedding-id>",
		Short: "Seat guests in an interactive terminal editor",
		Long: `Open the seating editor on a wedding's selected layout.

Pick a guest from the list on the left (enter, or click), move the pointer
onto a seat on the plan and press enter (or release the mouse) to seat them.
Pressing enter on an occupied seat with no guest in hand frees it. Changes
are saved in the background as you go.

Guests come from a TOML guest file (--guests or editor.guests_file); only
guests who accepted their invitation are listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.user()
			if err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if guestsFile != "" {
				cfg.Editor.GuestsFile = guestsFile
			}
			if cfg.Editor.GuestsFile == "" {
				printWarning("No guest file configured; the guest list is empty")
			}

			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				saveErrs := make(chan error, 8)
				ss, err := svc.OpenSeating(cmd.Context(), user, args[0], seating.WithErrorHandler(func(err error) {
					select {
					case saveErrs <- err:
					default:
					}
				}))
				if err != nil {
					return err
				}
				if ss.Layout == nil {
					_ = ss.Close(cmd.Context())
					return errors.Validation("wedding %s has no layout; run: seatplan wedding select %s <layout-id>", args[0], args[0])
				}

				model := NewEditorModel(ss, saveErrs, canvas.WithBounds(cfg.Editor.MinZoom, cfg.Editor.MaxZoom))
				prog := tea.NewProgram(model,
					tea.WithAltScreen(),
					tea.WithMouseCellMotion(),
					tea.WithContext(cmd.Context()),
				)
				_, runErr := prog.Run()

				closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
				defer cancel()
				if err := ss.Close(closeCtx); err != nil {
					return err
				}
				if runErr != nil {
					return runErr
				}

				sum := ss.Summary()
				printSuccess("Seating saved")
				printSeatStats(sum.Seated, sum.Capacity, sum.Eligible)
				if n := len(sum.Unseated); n > 0 {
					printDetail("%d accepted guests still without a seat", n)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&guestsFile, "guests", "", "TOML guest list (default: editor.guests_file)")

	return cmd
}
