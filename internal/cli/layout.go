package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatplan/pkg/planner"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// layoutCommand creates the layout command group.
func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "layout",
		Aliases: []string{"layouts"},
		Short:   "Manage venue layouts",
	}

	cmd.AddCommand(c.layoutImportCommand())
	cmd.AddCommand(c.layoutExportCommand())
	cmd.AddCommand(c.layoutListCommand())
	cmd.AddCommand(c.layoutShowCommand())
	cmd.AddCommand(c.layoutDeleteCommand())
	cmd.AddCommand(c.layoutPublishCommand())
	cmd.AddCommand(c.layoutDuplicateCommand())

	return cmd
}

// layoutImportCommand creates the "layout import" subcommand.
func (c *CLI) layoutImportCommand() *cobra.Command {
	var (
		public  bool
		replace string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create a layout from a TOML definition or JSON document",
		Long: `Create a layout from a file. Files ending in .toml are layout definitions
whose seats are generated from each table's capacity; other files are read
as JSON layout documents.

With --replace the outline and tables of an existing layout are overwritten
instead, keeping its id, name and creation time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.user()
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(cmd.Context()))

			l, err := venue.ImportFile(args[0], user)
			if err != nil {
				return err
			}
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				var saved *venue.Layout
				if replace != "" {
					saved, err = svc.ReplaceLayout(cmd.Context(), user, replace, l.Shape, l.Tables)
				} else {
					l.IsPublic = l.IsPublic || public
					saved, err = svc.CreateLayout(cmd.Context(), user, l)
				}
				if err != nil {
					return err
				}
				prog.done("Imported layout", "name", saved.Name, "tables", len(saved.Tables))

				printSuccess("Layout %s", StyleHighlight.Render(saved.Name))
				printKeyValue("ID", saved.ID)
				printLayoutStats(len(saved.Tables), saved.TotalCapacity, saved.IsPublic)
				printNewline()
				printNextStep("Seat a wedding with it", "seatplan wedding select <wedding> "+saved.ID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&public, "public", false, "make the layout visible to everyone")
	cmd.Flags().StringVar(&replace, "replace", "", "replace the tables and outline of this layout id")

	return cmd
}

// layoutExportCommand creates the "layout export" subcommand.
func (c *CLI) layoutExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <layout-id> <file>",
		Short: "Write a layout to a TOML definition or JSON document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.user()
			if err != nil {
				return err
			}
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				l, err := svc.GetLayout(cmd.Context(), user, args[0])
				if err != nil {
					return err
				}
				if err := venue.ExportFile(l, args[1]); err != nil {
					return err
				}
				printSuccess("Exported %s", l.Name)
				printFile(args[1])
				return nil
			})
		},
		ValidArgsFunction: c.completeLayoutIDs,
	}
}

// layoutListCommand creates the "layout list" subcommand.
func (c *CLI) layoutListCommand() *cobra.Command {
	var public bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your layouts, or every public layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				var (
					layouts []venue.Layout
					err     error
				)
				if public {
					layouts, err = svc.ListPublic(cmd.Context())
				} else {
					user, uerr := c.user()
					if uerr != nil {
						return uerr
					}
					layouts, err = svc.ListMine(cmd.Context(), user)
				}
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(layouts))
				for _, l := range layouts {
					rows = append(rows, []string{
						l.ID,
						l.Name,
						strconv.Itoa(len(l.Tables)),
						strconv.Itoa(l.TotalCapacity),
						visibility(l.IsPublic),
						l.UpdatedAt.Local().Format("Jan 2 15:04"),
					})
				}
				printTable([]string{"ID", "Name", "Tables", "Seats", "Visibility", "Updated"}, rows, "No layouts yet")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&public, "public", false, "list public layouts of all users")

	return cmd
}

// layoutShowCommand creates the "layout show" subcommand.
func (c *CLI) layoutShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <layout-id>",
		Short: "Show a layout's tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.user()
			if err != nil {
				return err
			}
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				l, err := svc.GetLayout(cmd.Context(), user, args[0])
				if err != nil {
					return err
				}
				printLayout(l)
				return nil
			})
		},
		ValidArgsFunction: c.completeLayoutIDs,
	}
}

func printLayout(l *venue.Layout) {
	fmt.Println(StyleTitle.Render(l.Name))
	printKeyValue("ID", l.ID)
	printKeyValue("Owner", l.OwnerID)
	if l.Description != "" {
		printKeyValue("Description", l.Description)
	}
	if l.PreviewImageURL != "" {
		printKeyValue("Preview", l.PreviewImageURL)
	}
	if l.Shape.Complete() {
		printKeyValue("Outline", fmt.Sprintf("%d points, %.0f sq units", len(l.Shape), l.Shape.Polygon().Area()))
	}
	printLayoutStats(len(l.Tables), l.TotalCapacity, l.IsPublic)
	printNewline()

	rows := make([][]string, 0, len(l.Tables))
	for i := range l.Tables {
		t := &l.Tables[i]
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			t.DisplayLabel(i),
			t.ID,
			string(t.Kind),
			fmt.Sprintf("%.0f,%.0f", t.Position.X, t.Position.Y),
			fmt.Sprintf("%.0f°", t.Rotation),
			strconv.Itoa(t.Capacity),
		})
	}
	printTable([]string{"#", "Label", "ID", "Kind", "Position", "Rotation", "Seats"}, rows, "No tables")
}

// layoutDeleteCommand creates the "layout delete" subcommand.
func (c *CLI) layoutDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <layout-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a layout",
		Long:    `Delete a layout. Weddings that selected it lose the selection and their seating.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.user()
			if err != nil {
				return err
			}
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				if err := svc.DeleteLayout(cmd.Context(), user, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted layout %s", args[0])
				return nil
			})
		},
		ValidArgsFunction: c.completeLayoutIDs,
	}
}

// layoutPublishCommand creates the "layout publish" subcommand.
func (c *CLI) layoutPublishCommand() *cobra.Command {
	var private bool

	cmd := &cobra.Command{
		Use:   "publish <layout-id>",
		Short: "Make a layout public (or private again with --private)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.user()
			if err != nil {
				return err
			}
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				l, err := svc.Publish(cmd.Context(), user, args[0], !private)
				if err != nil {
					return err
				}
				printSuccess("%s is now %s", l.Name, visibility(l.IsPublic))
				return nil
			})
		},
		ValidArgsFunction: c.completeLayoutIDs,
	}

	cmd.Flags().BoolVar(&private, "private", false, "unpublish instead")

	return cmd
}

// layoutDuplicateCommand creates the "layout duplicate" subcommand.
func (c *CLI) layoutDuplicateCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "duplicate <layout-id>",
		Short: "Copy a layout you can view into your own layouts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.user()
			if err != nil {
				return err
			}
			return c.withPlanner(cmd.Context(), func(svc *planner.Service) error {
				l, err := svc.DuplicateLayout(cmd.Context(), user, args[0], name)
				if err != nil {
					return err
				}
				printSuccess("Created %s", StyleHighlight.Render(l.Name))
				printKeyValue("ID", l.ID)
				return nil
			})
		},
		ValidArgsFunction: c.completeLayoutIDs,
	}

	cmd.Flags().StringVar(&name, "name", "", `name of the copy (default "Copy of <name>")`)

	return cmd
}

func visibility(public bool) string {
	if public {
		return iconPublic
	}
	return iconPrivate
}
