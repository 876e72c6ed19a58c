package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nwater/plantmcp/internal/hierarchy"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var markdown bool
	var root string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the hierarchy as an indented tree",
		Long: `Print the whole plant, or the subtree under --root, as an indented
text tree or as nested markdown lists.

Examples:
  plantmcp render
  plantmcp render --markdown
  plantmcp render --root module:101`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			store, err := loadStore(cfg)
			if err != nil {
				return err
			}

			var ref hierarchy.Ref
			if root != "" {
				if ref, err = hierarchy.ParseRef(root); err != nil {
					return err
				}
			}
			render := store.RenderText
			if markdown {
				render = store.RenderMarkdown
			}
			text, err := render(ref)
			if err != nil {
				return err
			}
			return writeLine(cmd, text)
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render markdown instead of plain text")
	cmd.Flags().StringVar(&root, "root", "", "render only the subtree under kind:id")
	return cmd
}

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print entity counts per kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			store, err := loadStore(cfg)
			if err != nil {
				return err
			}
			if markdown {
				return writeLine(cmd, store.SummaryMarkdown())
			}
			return writeLine(cmd, store.SummaryText())
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render a markdown table")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print detailed statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			store, err := loadStore(cfg)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(store.DetailedStatistics())
		},
	}
}

// writeLine prints text with exactly one trailing newline.
func writeLine(cmd *cobra.Command, text string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(text, "\n"))
	return err
}
