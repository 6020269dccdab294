package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bookshelf/internal/codec"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalogue as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = "json"
				if output != "" {
					format = filepath.Ext(output)
				}
			}
			exp, err := codec.ForFormat(format)
			if err != nil {
				return err
			}

			cfg, _, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			store, err := OpenStore(cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			cat, err := NewApp(cfg, store).Catalogue.Export(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" {
				return exp.Export(cat, cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := exp.Export(cat, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records to %s\n", cat.Len(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format (json|yaml); defaults to the output extension or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var format string
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a JSON or YAML catalogue into the store",
		Long: `Load a JSON or YAML catalogue into the store.

All records are inserted in one transaction: if any record is invalid or
conflicts with stored data, nothing is written. With --replace every
stored record is deleted first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := readCatalogue(args[0], format)
			if err != nil {
				return err
			}

			cfg, _, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			store, err := OpenStore(cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			svc := NewApp(cfg, store).Catalogue
			if replace {
				err = svc.Replace(cmd.Context(), cat)
			} else {
				err = svc.Import(cmd.Context(), cat)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records from %s\n", cat.Len(), args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input format (json|yaml); defaults to the file extension")
	cmd.Flags().BoolVar(&replace, "replace", false, "delete every stored record before importing")

	return cmd
}

// readCatalogue parses a catalogue file, picking the codec from format or
// the file extension
func readCatalogue(path, format string) (*codec.Catalogue, error) {
	if format == "" {
		format = filepath.Ext(path)
	}
	imp, err := codec.ForFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cat, err := imp.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}
