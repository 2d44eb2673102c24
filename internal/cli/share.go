package cli

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	errs "github.com/matzehuels/situationroom/pkg/errors"
	"github.com/matzehuels/situationroom/pkg/share"
)

// maxShareURLLength is the URL length above which some browsers and chat
// clients truncate links.
const maxShareURLLength = 2000

// shareCommand prints the share link of a dashboard.
func (c *CLI) shareCommand() *cobra.Command {
	var (
		baseURL string
		copyOut bool
	)

	cmd := &cobra.Command{
		Use:   "share [dashboard-id]",
		Short: "Print a share link for a dashboard",
		Long: `Print a share link for a dashboard (default: the active one).

The link carries the widgets, their layout and every non-default
configuration field. Fields left at their defaults are omitted, so the
link stays short. With no base URL configured the bare token is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				d, err := s.dashboard(optionalArg(args))
				if err != nil {
					return err
				}
				token, err := s.codec.Encode(d)
				if err != nil {
					return err
				}

				base := s.cfg.Share.BaseURL
				if cmd.Flags().Changed("base-url") {
					if err := errs.ValidateURL(baseURL); err != nil {
						return err
					}
					base = baseURL
				}
				link := token
				if base != "" {
					link = share.URL(base, token)
				}
				fmt.Fprintln(cmd.OutOrStdout(), link)

				if n := share.EstimateURLLength(base, token); n > maxShareURLLength {
					printWarning(c.status, "share link is about %d characters; some clients truncate links over %d", n, maxShareURLLength)
				}
				if copyOut {
					if err := clipboard.WriteAll(link); err != nil {
						return errs.Wrap(errs.ErrCodeUnsupported, err, "copy to clipboard")
					}
					printSuccess(c.status, "Copied to clipboard")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "base URL to prefix the token with (overrides config)")
	cmd.Flags().BoolVarP(&copyOut, "copy", "c", false, "copy the link to the clipboard")
	return cmd
}

// openCommand loads a share link as a new dashboard.
func (c *CLI) openCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "open <token|url>",
		Short: "Load a shared dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := share.TokenFromURL(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				if err := errs.ValidateDashboardName(name); err != nil {
					return err
				}
			}
			return c.withSession(cmd, func(s *session) error {
				decoded := s.codec.Decode(token)
				if decoded == nil {
					return errs.New(errs.ErrCodeInvalidToken, "share link could not be decoded")
				}
				st, err := s.dispatch(cmd.Context(), dashboard.LoadShared{
					Name:     name,
					Widgets:  decoded.Widgets,
					Settings: decoded.Settings,
				})
				if err != nil {
					return err
				}
				d, _ := st.Active()
				out := cmd.OutOrStdout()
				printSuccess(out, "Loaded %s with %d widgets", StyleHighlight.Render(d.Name), len(d.Widgets))
				printKeyValue(out, "id", d.ID)
				printNextStep(out, "Preview it", appName+" dashboard preview")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name of the new dashboard (default: "+dashboard.SharedDashboardName+")")
	return cmd
}

// decodeCommand prints the contents of a share link without loading it.
func (c *CLI) decodeCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "decode <token|url>",
		Short: "Print the widgets and settings of a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, formatJSON, formatYAML); err != nil {
				return err
			}
			token, err := share.TokenFromURL(args[0])
			if err != nil {
				return err
			}
			codec := share.New(c.registry, share.WithLogger(loggerFromContext(cmd.Context())))
			decoded := codec.Decode(token)
			if decoded == nil {
				return errs.New(errs.ErrCodeInvalidToken, "share link could not be decoded")
			}
			return writeData(cmd.OutOrStdout(), decoded, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or yaml")
	return cmd
}
