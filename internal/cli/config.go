package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bookshelf/internal/config"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	var asYAML, showPaths bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showPaths {
				printSearchPaths(cmd.OutOrStdout())
				return nil
			}

			cfg, path, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asYAML {
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("marshal config: %w", err)
				}
				_, err = out.Write(data)
				return err
			}

			if path == "" {
				path = "(defaults)"
			}
			fmt.Fprintf(out, "Config: %s\n%s\n", path, cfg.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the configuration as YAML")
	cmd.Flags().BoolVar(&showPaths, "paths", false, "list the config search locations in priority order")
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var path string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if !force && config.Exists(path) {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "destination (default: XDG config location)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// printSearchPaths writes one line per config location, marking the ones
// that exist
func printSearchPaths(w io.Writer) {
	for _, c := range config.SearchPaths(os.Getenv) {
		mark := " "
		if c.Found {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-8s %s\n", mark, c.Source, c.Path)
	}
}
