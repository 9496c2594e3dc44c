package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/dci/export"
	"github.com/hupe1980/dci/table"
	"github.com/hupe1980/dci/value"
)

func newListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List stored tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(g, cmd, func(a *app) error {
				names, err := a.store.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(a.out, name)
				}
				return nil
			})
		},
	}
}

func newInfoCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info NAME",
		Short: "Show the catalog entry of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(g, cmd, func(a *app) error {
				e, err := a.store.Info(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "name:\t%s\n", e.Name)
				if e.Description != "" {
					fmt.Fprintf(tw, "description:\t%s\n", e.Description)
				}
				fmt.Fprintf(tw, "record based:\t%t\n", e.RecordBased)
				fmt.Fprintf(tw, "records:\t%d\n", e.Records)
				fmt.Fprintf(tw, "size:\t%d bytes\n", e.Size)
				fmt.Fprintf(tw, "compression:\t%s\n", e.Compression)
				fmt.Fprintf(tw, "checksum:\t%t\n", e.Checksum)
				if !e.SavedAt.IsZero() {
					fmt.Fprintf(tw, "saved:\t%s\n", e.SavedAt.Format("2006-01-02 15:04:05Z07:00"))
				}
				fmt.Fprintf(tw, "columns:\t%d\n", len(e.Columns))
				for i, c := range e.Columns {
					fmt.Fprintf(tw, "  %d\t%s\t%s\n", i+1, c.Name, c.Type)
				}
				return tw.Flush()
			})
		},
	}
}

func newDumpCmd(g *globalFlags) *cobra.Command {
	var formatName string
	cmd := &cobra.Command{
		Use:   "dump NAME",
		Short: "Write a table as CSV, JSON or a YAML schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(g, cmd, func(a *app) error {
				t, err := a.store.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				switch strings.ToLower(formatName) {
				case "csv":
					return export.WriteCSV(a.out, t)
				case "json":
					return export.WriteJSON(a.out, t, export.WithIndent("", "  "))
				case "schema", "yaml":
					return export.WriteSchema(a.out, t)
				default:
					return fmt.Errorf("unknown format %q", formatName)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "csv", "Output format (csv, json, schema)")
	return cmd
}

func newImportCmd(g *globalFlags) *cobra.Command {
	var (
		formatName string
		types      []string
	)
	cmd := &cobra.Command{
		Use:   "import NAME FILE",
		Short: "Store a CSV or JSON file as a table",
		Long: `Store a CSV or JSON file as a table. The format defaults to the file
extension. CSV columns are read as String unless typed with --type.

Example:
  dci import orders orders.csv --type qty=Int --type price=Double`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]
			opts := []export.Option{}
			for _, spec := range types {
				col, typeName, ok := strings.Cut(spec, "=")
				dt, known := value.ParseDataType(typeName)
				if !ok || !known {
					return fmt.Errorf("invalid column type %q, want NAME=TYPE", spec)
				}
				opts = append(opts, export.WithColumnType(col, dt))
			}
			if formatName == "" {
				formatName = strings.TrimPrefix(filepath.Ext(path), ".")
			}

			f, err := os.Open(path) //nolint:gosec // user-supplied input file
			if err != nil {
				return err
			}
			defer f.Close()

			return withApp(g, cmd, func(a *app) error {
				var (
					t   *table.Table
					err error
				)
				switch strings.ToLower(formatName) {
				case "csv":
					t, err = export.ReadCSV(f, opts...)
				case "json":
					t, err = export.ReadJSON(f, opts...)
				default:
					return fmt.Errorf("unknown format %q", formatName)
				}
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				t.SetName(name)
				if err := a.store.Save(cmd.Context(), name, t); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "imported %s: %d records, %d columns\n", name, t.RecordCount(), t.ColumnCount())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "Input format (csv, json); default from the file extension")
	cmd.Flags().StringArrayVarP(&types, "type", "t", nil, "Column type for CSV input as NAME=TYPE (repeatable)")
	return cmd
}

func newConvertCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "convert NAME...",
		Short: "Rewrite tables with the current --compression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(g, cmd, func(a *app) error {
				tables, err := a.store.LoadAll(cmd.Context(), args)
				if err != nil {
					return err
				}
				if err := a.store.SaveAll(cmd.Context(), tables); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "converted %d tables to %s\n", len(tables), g.compression)
				return nil
			})
		},
	}
}

func newRemoveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME...",
		Short: "Delete stored tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(g, cmd, func(a *app) error {
				for _, name := range args {
					if err := a.store.Delete(cmd.Context(), name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
