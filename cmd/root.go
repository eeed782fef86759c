package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/remora-data/remora"
	"github.com/remora-data/remora/backend"
	"github.com/remora-data/remora/config"
	"github.com/remora-data/remora/convert"
	"github.com/remora-data/remora/dispatch"
	"github.com/remora-data/remora/frame"
	"github.com/remora-data/remora/ingest"

	"github.com/remora-data/remora/backends/slicetable"

	_ "github.com/remora-data/remora/backends/arrowtable"
	_ "github.com/remora-data/remora/backends/devtable"
	_ "github.com/remora-data/remora/backends/lazytable"
)

var rootCmd = &cobra.Command{
	Use:           "remora",
	Short:         "Inspect and move tabular data between dataframe backends.",
	SilenceErrors: true,
	SilenceUsage:  true,
	Example: `remora show people.json
remora show people.csv --backend arrowtable --head 5
remora convert people.json --to devtable
remora backends`,
}

func Execute(ctx context.Context) {
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

var configPath string
var modeOverride string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file.")
	rootCmd.PersistentFlags().StringVar(&modeOverride, "mode", "", "Conversion mode, strict or lenient. Overrides the configuration file.")
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("couldn't resolve config path: %w", err)
		}
	}
	cfg, err := config.Read(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read config: %w", err)
	}
	if modeOverride != "" {
		cfg.ConversionMode = modeOverride
	}
	return cfg, nil
}

func conversionMode(cfg *config.Config) (convert.Mode, error) {
	switch cfg.ConversionMode {
	case "", "strict":
		return convert.Strict, nil
	case "lenient":
		return convert.Lenient, nil
	default:
		return convert.Strict, fmt.Errorf("unknown conversion mode: '%s'", cfg.ConversionMode)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("couldn't parse log level: %w", err)
		}
		zapCfg.Level = level
	}
	return zapCfg.Build()
}

// loadFrame reads a JSON lines or CSV file into a host table on the
// requested backend. Data always lands on the reference backend first and
// gets converted from there.
func loadFrame(path string, kind backend.Kind, mode convert.Mode, logger *zap.Logger) (*frame.Frame, error) {
	var schema remora.Schema
	var columns []remora.Column
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		schema, columns, err = ingest.ReadJSONLines(path)
	case ".csv":
		schema, columns, err = ingest.ReadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file extension: '%s'", ext)
	}
	if err != nil {
		return nil, err
	}

	table, err := slicetable.New(schema, columns)
	if err != nil {
		return nil, fmt.Errorf("couldn't build table: %w", err)
	}
	f, err := frame.Wrap(table, backend.KindSliceTable)
	if err != nil {
		return nil, err
	}
	if kind == backend.KindSliceTable {
		return f, nil
	}
	out, _, err := convert.Convert(f, kind, mode, convert.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("couldn't convert to '%s': %w", kind, err)
	}
	return out, nil
}

func parseKind(name string) (backend.Kind, error) {
	kind, ok := backend.KindFromString(name)
	if !ok {
		return backend.KindInvalid, fmt.Errorf("unknown backend: '%s'", name)
	}
	return kind, nil
}

func printFrame(w io.Writer, f *frame.Frame) error {
	collected, err := dispatch.Collect(f)
	if err != nil {
		return fmt.Errorf("couldn't collect frame: %w", err)
	}
	names, err := dispatch.Columns(collected)
	if err != nil {
		return err
	}
	rows, err := dispatch.Rows(collected)
	if err != nil {
		return err
	}

	table := newTableWriter(w, names)
	for _, row := range rows {
		out := make([]string, len(row))
		for i := range row {
			out[i] = row[i].String()
		}
		table.Append(out)
	}
	table.Render()
	return nil
}
