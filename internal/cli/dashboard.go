package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	errs "github.com/matzehuels/situationroom/pkg/errors"
)

// dashboardCommand groups the dashboard subcommands.
func (c *CLI) dashboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Manage dashboards",
	}

	cmd.AddCommand(c.dashboardListCommand())
	cmd.AddCommand(c.dashboardCreateCommand())
	cmd.AddCommand(c.dashboardDeleteCommand())
	cmd.AddCommand(c.dashboardUseCommand())
	cmd.AddCommand(c.dashboardShowCommand())
	cmd.AddCommand(c.dashboardSettingsCommand())
	cmd.AddCommand(c.dashboardPreviewCommand())
	return cmd
}

func (c *CLI) dashboardListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List dashboards",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				fmt.Fprintln(cmd.OutOrStdout(), renderDashboards(s.store.State()))
				return nil
			})
		},
	}
}

func (c *CLI) dashboardCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a dashboard and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := errs.ValidateDashboardName(name); err != nil {
				return err
			}
			return c.withSession(cmd, func(s *session) error {
				st, err := s.dispatch(cmd.Context(), dashboard.CreateDashboard{Name: name})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printSuccess(out, "Created dashboard %s", StyleHighlight.Render(name))
				printKeyValue(out, "id", *st.ActiveDashboardID)
				printNextStep(out, "Add a widget", appName+" widget add map")
				return nil
			})
		},
	}
}

func (c *CLI) dashboardDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				d, err := s.dashboard(args[0])
				if err != nil {
					return err
				}
				st, err := s.dispatch(cmd.Context(), dashboard.DeleteDashboard{ID: d.ID})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printSuccess(out, "Deleted dashboard %s", StyleHighlight.Render(d.Name))
				if active, ok := st.Active(); ok {
					printInfo(out, "Active dashboard is now %s", active.Name)
				} else {
					printWarning(out, "No dashboards left")
				}
				return nil
			})
		},
	}
}

func (c *CLI) dashboardUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Make a dashboard active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				d, err := s.dashboard(args[0])
				if err != nil {
					return err
				}
				if _, err := s.dispatch(cmd.Context(), dashboard.SetActiveDashboard{ID: d.ID}); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Switched to %s", StyleHighlight.Render(d.Name))
				return nil
			})
		},
	}
}

func (c *CLI) dashboardShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a dashboard (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}
			return c.withSession(cmd, func(s *session) error {
				d, err := s.dashboard(optionalArg(args))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if format != formatTable {
					return writeData(out, d, format)
				}
				fmt.Fprintln(out, StyleTitle.Render(d.Name))
				printKeyValue(out, "id", d.ID)
				printKeyValue(out, "theme", string(d.Settings.Theme))
				printKeyValue(out, "grid", fmt.Sprintf("%dx%d", d.Settings.GridCols, d.Settings.GridRows))
				printKeyValue(out, "poll interval", fmt.Sprintf("%dms", d.Settings.DefaultPollIntervalMs))
				printKeyValue(out, "grid lines", fmt.Sprintf("%t", d.Settings.ShowGridLines))
				if len(d.Widgets) == 0 {
					printInfo(out, "No widgets")
					return nil
				}
				fmt.Fprintln(out, renderWidgets(d))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json or yaml")
	return cmd
}

func (c *CLI) dashboardSettingsCommand() *cobra.Command {
	var (
		theme     string
		poll      int
		cols      int
		rows      int
		gridLines bool
	)

	cmd := &cobra.Command{
		Use:   "settings [id]",
		Short: "Change dashboard settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch dashboard.SettingsPatch
			flags := cmd.Flags()
			if flags.Changed("theme") {
				t, err := dashboard.ParseTheme(theme)
				if err != nil {
					return err
				}
				patch.Theme = &t
			}
			if flags.Changed("poll-interval") {
				patch.DefaultPollIntervalMs = &poll
			}
			if flags.Changed("cols") {
				patch.GridCols = &cols
			}
			if flags.Changed("rows") {
				patch.GridRows = &rows
			}
			if flags.Changed("grid-lines") {
				patch.ShowGridLines = &gridLines
			}
			if patch.IsZero() {
				return errs.New(errs.ErrCodeInvalidInput, "no settings given")
			}
			if err := patch.Validate(); err != nil {
				return err
			}

			return c.withSession(cmd, func(s *session) error {
				d, err := s.dashboard(optionalArg(args))
				if err != nil {
					return err
				}
				if _, err := s.dispatch(cmd.Context(), dashboard.UpdateSettings{ID: d.ID, Patch: patch}); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Updated settings of %s", StyleHighlight.Render(d.Name))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "theme: light, dark or system")
	cmd.Flags().IntVar(&poll, "poll-interval", 0, "default poll interval in milliseconds")
	cmd.Flags().IntVar(&cols, "cols", 0, "grid columns")
	cmd.Flags().IntVar(&rows, "rows", 0, "grid rows")
	cmd.Flags().BoolVar(&gridLines, "grid-lines", false, "show grid lines")
	return cmd
}

func (c *CLI) dashboardPreviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [id]",
		Short: "Draw a dashboard's grid",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				d, err := s.dashboard(optionalArg(args))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderGrid(d))
				return nil
			})
		},
	}
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
