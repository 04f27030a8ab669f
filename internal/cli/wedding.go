package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatplan/pkg/planner"
	"github.com/matzehuels/seatplan/pkg/seating"
)

// weddingCommand creates the wedding command group.
func (c *CLI) weddingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wedding",
		Aliases: []string{"weddings"},
		Short:   "Manage weddings and their seating",
	}

	cmd.AddCommand(c.weddingCreateCommand())
	cmd.AddCommand(c.weddingSelectCommand())
	cmd.AddCommand(c.weddingAssignCommand())
	cmd.AddCommand(c.weddingUnassignCommand())
	cmd.AddCommand(c.weddingClearCommand())
	cmd.AddCommand(c.weddingShowCommand())

	return cmd
}

// weddingCreateCommand creates the "wedding create" subcommand.
func (c *CLI) weddingCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a wedding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.user()
			if err != nil {
				return err
			}
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				w, err := svc.CreateWedding(cmd.Context(), user, args[0])
				if err != nil {
					return err
				}
				printSuccess("Wedding %s", StyleHighlight.Render(w.Name))
				printKeyValue("ID", w.ID)
				printNewline()
				printNextStep("Pick a layout", "seatplan wedding select "+w.ID+" <layout-id>")
				return nil
			})
		},
	}
}

// weddingSelectCommand creates the "wedding select" subcommand.
func (c *CLI) weddingSelectCommand() *cobra.Command {
	var none bool

	cmd := &cobra.Command{
		Use:   "select <wedding-id> [layout-id]",
		Short: "Select the wedding's layout, clearing its seating",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.user()
			if err != nil {
				return err
			}
			layoutID := ""
			if len(args) == 2 {
				layoutID = args[1]
			} else if !none {
				return cmd.Usage()
			}
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				if err := svc.SelectLayout(cmd.Context(), user, args[0], layoutID); err != nil {
					return err
				}
				if layoutID == "" {
					printSuccess("Cleared the layout of %s", args[0])
				} else {
					printSuccess("Selected layout %s", layoutID)
					printNextStep("Start seating", "seatplan edit "+args[0])
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&none, "none", false, "clear the selection instead")

	return cmd
}

// weddingAssignCommand creates the "wedding assign" subcommand.
func (c *CLI) weddingAssignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <wedding-id> <seat-id> <guest-id>",
		Short: "Seat a guest, moving them if they already have a seat",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.user()
			if err != nil {
				return err
			}
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				m, err := svc.AssignSeat(cmd.Context(), user, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				printSuccess("Seated %s at %s", m[args[1]].GuestName, args[1])
				return nil
			})
		},
	}
}

// weddingUnassignCommand creates the "wedding unassign" subcommand.
func (c *CLI) weddingUnassignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <wedding-id> <seat-id>",
		Short: "Empty a seat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.user()
			if err != nil {
				return err
			}
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				if _, err := svc.UnassignSeat(cmd.Context(), user, args[0], args[1]); err != nil {
					return err
				}
				printSuccess("Seat %s is free", args[1])
				return nil
			})
		},
	}
}

// weddingClearCommand creates the "wedding clear" subcommand.
func (c *CLI) weddingClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <wedding-id>",
		Short: "Remove every seat assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.user()
			if err != nil {
				return err
			}
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				if _, err := svc.ClearSeating(cmd.Context(), user, args[0]); err != nil {
					return err
				}
				printSuccess("Cleared seating of %s", args[0])
				return nil
			})
		},
	}
}

// weddingShowCommand creates the "wedding show" subcommand.
func (c *CLI) weddingShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <wedding-id>",
		Short: "Show seating progress and assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.user()
			if err != nil {
				return err
			}
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				w, err := svc.GetWedding(cmd.Context(), user, args[0])
				if err != nil {
					return err
				}
				sum, err := svc.Summary(cmd.Context(), user, args[0])
				if err != nil {
					return err
				}

				fmt.Println(StyleTitle.Render(w.Name))
				printKeyValue("ID", w.ID)
				if w.SelectedLayoutID == "" {
					printKeyValue("Layout", "none")
				} else {
					printKeyValue("Layout", w.SelectedLayoutID)
				}
				printKeyValue("Revision", strconv.FormatInt(w.Revision, 10))
				printSeatStats(sum.Seated, sum.Capacity, sum.Eligible)
				printNewline()

				printOccupancy(sum)
				printAssignments(w.Assignments)

				if len(sum.Unseated) > 0 {
					printNewline()
					printWarning("%d accepted guests without a seat", len(sum.Unseated))
					for _, g := range sum.Unseated {
						printDetail("%s (%s)", g.DisplayName(), g.ID)
					}
				}
				for _, id := range sum.Orphaned {
					printError("seat %s is assigned but not in the layout", id)
				}
				return nil
			})
		},
	}
}

func printOccupancy(sum seating.Summary) {
	rows := make([][]string, 0, len(sum.Tables))
	for _, t := range sum.Tables {
		rows = append(rows, []string{
			t.Label,
			t.TableID,
			fmt.Sprintf("%d/%d", t.Occupied, t.Capacity),
		})
	}
	printTable([]string{"Table", "ID", "Occupied"}, rows, "No layout selected")
}

func printAssignments(m seating.Map) {
	seats := m.Seats()
	rows := make([][]string, 0, len(seats))
	for _, id := range seats {
		a := m[id]
		rows = append(rows, []string{id, a.GuestName, a.GuestID})
	}
	printTable([]string{"Seat", "Guest", "Guest ID"}, rows, "Nobody is seated yet")
}
