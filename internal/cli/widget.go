package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	errs "github.com/matzehuels/situationroom/pkg/errors"
	"github.com/matzehuels/situationroom/pkg/widget"
)

// widgetCommand groups the widget subcommands. Each works on the active
// dashboard unless --dashboard is given.
func (c *CLI) widgetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widget",
		Short: "Add, configure and arrange widgets",
	}

	var dashboardID string
	cmd.PersistentFlags().StringVar(&dashboardID, "dashboard", "", "dashboard id (default: the active dashboard)")

	cmd.AddCommand(c.widgetAddCommand(&dashboardID))
	cmd.AddCommand(c.widgetRemoveCommand(&dashboardID))
	cmd.AddCommand(c.widgetSetCommand(&dashboardID))
	cmd.AddCommand(c.widgetMoveCommand(&dashboardID))
	return cmd
}

func (c *CLI) widgetAddCommand(dashboardID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add [type]",
		Short: "Add a widget (pick interactively when no type is given)",
		Long: `Add a widget to a dashboard. The widget gets its type's default
configuration and is placed at the first free spot of the grid, scanning
rows top to bottom.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var types []string
			for _, t := range c.registry.GetTypes() {
				types = append(types, string(t))
			}
			return types, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var t widget.Type
			if len(args) == 1 {
				t = widget.Type(args[0])
			} else {
				picked, ok, err := pickWidgetType(c.registry.GetAllMetadata())
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				t = picked
			}
			if !c.registry.Has(t) {
				return errs.UnknownWidgetType(string(t))
			}

			return c.withSession(cmd, func(s *session) error {
				d, err := s.dashboard(*dashboardID)
				if err != nil {
					return err
				}
				st, err := s.dispatch(cmd.Context(), dashboard.AddWidget{DashboardID: d.ID, Type: t})
				if err != nil {
					return err
				}
				after, _ := st.Dashboard(d.ID)
				added, ok := newWidget(d, after)
				if !ok {
					return errs.New(errs.ErrCodeInternal, "added widget not found")
				}
				out := cmd.OutOrStdout()
				printSuccess(out, "Added %s to %s", StyleHighlight.Render(added.Config.Common().Title), d.Name)
				printKeyValue(out, "id", added.ID())
				printKeyValue(out, "position", fmt.Sprintf("%d,%d", added.Layout.X, added.Layout.Y))
				printKeyValue(out, "size", fmt.Sprintf("%dx%d", added.Layout.W, added.Layout.H))
				return nil
			})
		},
	}
}

// newWidget returns the widget in after that is not in before.
func newWidget(before, after dashboard.Dashboard) (widget.Instance, bool) {
	for _, in := range after.Widgets {
		if _, ok := before.Widget(in.ID()); !ok {
			return in, true
		}
	}
	return widget.Instance{}, false
}

func (c *CLI) widgetRemoveCommand(dashboardID *string) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <widget-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a widget",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				d, in, err := s.widget(*dashboardID, args[0])
				if err != nil {
					return err
				}
				if _, err := s.dispatch(cmd.Context(), dashboard.RemoveWidget{DashboardID: d.ID, WidgetID: in.ID()}); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Removed %s", StyleHighlight.Render(in.Config.Common().Title))
				return nil
			})
		},
	}
}

func (c *CLI) widgetSetCommand(dashboardID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <widget-id> <key=value>...",
		Short: "Change widget configuration fields",
		Long: `Change widget configuration fields. Keys are the JSON field names of
the widget's configuration. Values are parsed as JSON when possible and
taken as strings otherwise:

  sitroom widget set 3f2a title="Border watch" zoom=6 center=[48.5,31.2]`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(s *session) error {
				d, in, err := s.widget(*dashboardID, args[0])
				if err != nil {
					return err
				}
				if _, err := s.dispatch(cmd.Context(), dashboard.UpdateWidgetConfig{
					DashboardID: d.ID,
					WidgetID:    in.ID(),
					Patch:       patch,
				}); err != nil {
					return err
				}
				keys := make([]string, 0, len(patch))
				for k := range patch {
					keys = append(keys, k)
				}
				slices.Sort(keys)
				printSuccess(cmd.OutOrStdout(), "Updated %s", strings.Join(keys, ", "))
				return nil
			})
		},
	}
}

// parseAssignments turns key=value arguments into a config patch.
func parseAssignments(args []string) (map[string]any, error) {
	patch := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errs.New(errs.ErrCodeInvalidInput, "expected key=value, got %q", arg)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		patch[key] = v
	}
	return patch, nil
}

func (c *CLI) widgetMoveCommand(dashboardID *string) *cobra.Command {
	var w, h int

	cmd := &cobra.Command{
		Use:   "move <widget-id> <x> <y>",
		Short: "Move or resize a widget",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return errs.New(errs.ErrCodeInvalidLayout, "x must be an integer, got %q", args[1])
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return errs.New(errs.ErrCodeInvalidLayout, "y must be an integer, got %q", args[2])
			}

			return c.withSession(cmd, func(s *session) error {
				d, in, err := s.widget(*dashboardID, args[0])
				if err != nil {
					return err
				}
				l := in.Layout.Clone()
				l.X, l.Y = x, y
				if cmd.Flags().Changed("w") {
					l.W = w
				}
				if cmd.Flags().Changed("h") {
					l.H = h
				}
				if err := checkLayout(l); err != nil {
					return err
				}
				if _, err := s.dispatch(cmd.Context(), dashboard.UpdateLayouts{
					DashboardID: d.ID,
					Layouts:     []widget.Layout{l},
				}); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Moved %s to %d,%d (%dx%d)",
					StyleHighlight.Render(in.Config.Common().Title), l.X, l.Y, l.W, l.H)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&w, "w", 0, "new width in grid columns")
	cmd.Flags().IntVar(&h, "h", 0, "new height in grid rows")
	return cmd
}

// checkLayout rejects negative positions, empty sizes and sizes outside
// the widget's min/max bounds.
func checkLayout(l widget.Layout) error {
	if l.X < 0 || l.Y < 0 {
		return errs.New(errs.ErrCodeInvalidLayout, "position must not be negative, got %d,%d", l.X, l.Y)
	}
	if l.W < 1 || l.H < 1 {
		return errs.New(errs.ErrCodeInvalidLayout, "size must be at least 1x1, got %dx%d", l.W, l.H)
	}
	if (l.MinW != nil && l.W < *l.MinW) || (l.MaxW != nil && l.W > *l.MaxW) {
		return errs.New(errs.ErrCodeInvalidLayout, "width %d outside allowed range", l.W)
	}
	if (l.MinH != nil && l.H < *l.MinH) || (l.MaxH != nil && l.H > *l.MaxH) {
		return errs.New(errs.ErrCodeInvalidLayout, "height %d outside allowed range", l.H)
	}
	return nil
}

// widget looks up a widget on the given (or active) dashboard.
func (s *session) widget(dashboardID, widgetID string) (dashboard.Dashboard, widget.Instance, error) {
	d, err := s.dashboard(dashboardID)
	if err != nil {
		return d, widget.Instance{}, err
	}
	in, ok := d.Widget(widgetID)
	if !ok {
		return d, in, errs.WidgetNotFound(widgetID)
	}
	return d, in, nil
}
