package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"chartapp/internal/config"
	"chartapp/internal/dataprocessing"
	"chartapp/internal/exporter"
	"chartapp/internal/infrastructure"
	"chartapp/internal/services"
	"chartapp/pkg/contracts"
	"chartapp/pkg/contracts/domain"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

type cli struct {
	out     io.Writer
	logger  *slog.Logger
	uploads *services.UploadService
	pretty  bool
	verbose bool
	format  string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "sheetx",
		Short:         "Extract spreadsheet data and shape it into chart configs",
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if c.verbose {
				level = slog.LevelDebug
			}
			c.logger = infrastructure.WithComponent(infrastructure.NewLogger(errOut, &slog.HandlerOptions{Level: level}), "sheetx")
			cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
			c.uploads = services.NewUploadService(c.logger, infrastructure.NoopMetrics())
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().BoolVar(&c.pretty, "pretty", false, "Pretty-print JSON output")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log extraction details to stderr")
	root.PersistentFlags().StringVar(&c.format, "format", formatJSON, "Row output format: json or csv")

	root.AddCommand(
		c.sheetsCmd(),
		c.extractCmd(),
		c.csvCmd(),
		c.convertCmd(),
		c.schoolsCmd(),
	)

	return root
}

func (c *cli) sheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <file.xlsx>",
		Short: "List the sheet names of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			up, closeFn, err := openUpload(args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			names, err := c.uploads.SheetNames(cmd.Context(), up)
			if err != nil {
				return err
			}
			return c.write(map[string][]string{"sheets": names})
		},
	}
}

func (c *cli) extractCmd() *cobra.Command {
	var (
		sheet     int
		rangeExpr string
		raw       bool
	)

	cmd := &cobra.Command{
		Use:   "extract <file.xlsx>",
		Short: "Extract a cell range as header-keyed rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			up, closeFn, err := openUpload(args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			parse := c.uploads.ParseExcel
			if raw {
				parse = c.uploads.ParseExcelRaw
			}

			rows, err := parse(cmd.Context(), up, sheet, rangeExpr)
			if err != nil {
				return err
			}
			return c.writeRows(rows)
		},
	}

	cmd.Flags().IntVar(&sheet, "sheet", 0, "Zero-based sheet index")
	cmd.Flags().StringVar(&rangeExpr, "range", "", "Cell range such as A1:D20")
	cmd.Flags().BoolVar(&raw, "raw", false, "Keep the header row and key cells by column offset")
	cmd.MarkFlagRequired("range")

	return cmd
}

func (c *cli) csvCmd() *cobra.Command {
	var delimiter string

	cmd := &cobra.Command{
		Use:   "csv <file>",
		Short: "Parse delimited text as header-keyed rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			up, closeFn, err := openUpload(args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			rows, err := c.uploads.ParseCSV(cmd.Context(), up, delimiter)
			if err != nil {
				return err
			}
			return c.writeRows(rows)
		},
	}

	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", ",", `Field delimiter, a single character or \t`)
	return cmd
}

func (c *cli) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <rows.json|->",
		Short: "Shape a JSON array of rows into a chart config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var rows []dataprocessing.Record
			if err := json.NewDecoder(in).Decode(&rows); err != nil {
				return fmt.Errorf("decode rows: %w", err)
			}
			if len(rows) == 0 {
				return services.ErrEmptyRows
			}
			return c.write(dataprocessing.ShapeChart(rows))
		},
	}
}

func (c *cli) schoolsCmd() *cobra.Command {
	var dataset string
	f := domain.DefaultSchoolFilter()

	cmd := &cobra.Command{
		Use:   "schools",
		Short: "Filter the bundled schools dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(dataset); err != nil {
				return err
			}
			svc := services.NewSchoolService(dataset, c.logger, infrastructure.NoopMetrics())
			return c.write(svc.Search(cmd.Context(), f))
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", config.Default().SchoolsDatasetPath(), "Schools CSV path")
	cmd.Flags().StringVar(&f.Type, "type", f.Type, `School type, "All" for any`)
	cmd.Flags().StringVar(&f.City, "city", f.City, `City, "All" for any`)
	cmd.Flags().StringVar(&f.Name, "name", f.Name, "Case-insensitive name substring")
	cmd.Flags().IntVar(&f.PupilsMax, "pupils-max", f.PupilsMax, "Maximum KS4 pupils")
	cmd.Flags().Float64Var(&f.Grade5Max, "grade5-max", f.Grade5Max, "Maximum grade 5+ percentage")
	cmd.Flags().IntVar(&f.RankMin, "rank-min", f.RankMin, "Minimum rank")
	cmd.Flags().IntVar(&f.RankMax, "rank-max", f.RankMax, "Maximum rank")

	return cmd
}

// writeRows honours --format; everything else is always JSON
func (c *cli) writeRows(rows []dataprocessing.Record) error {
	switch c.format {
	case formatJSON:
		return c.write(rows)
	case formatCSV:
		return exporter.WriteRecords(c.out, rows, exporter.WriteOptions{})
	default:
		return fmt.Errorf("unknown format %q", c.format)
	}
}

func (c *cli) write(v interface{}) error {
	enc := json.NewEncoder(c.out)
	if c.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// openUpload opens path as an upload. Callers must invoke the returned func.
func openUpload(path string) (services.Upload, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return services.Upload{}, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return services.Upload{}, nil, err
	}

	return services.Upload{
		Filename: info.Name(),
		Size:     info.Size(),
		Content:  f,
	}, func() { f.Close() }, nil
}
