package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/remora-data/remora/dispatch"
)

var showBackend string
var showColumns string
var showHead int

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Load a JSON lines or CSV file onto a backend and print it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		mode, err := conversionMode(cfg)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		kind, err := parseKind(showBackend)
		if err != nil {
			return err
		}

		f, err := loadFrame(args[0], kind, mode, logger)
		if err != nil {
			return err
		}

		if showColumns != "" {
			f, err = dispatch.Select(f, strings.Split(showColumns, ","))
			if err != nil {
				return err
			}
		}
		if showHead >= 0 {
			f, err = dispatch.Head(f, showHead)
			if err != nil {
				return err
			}
		}

		return printFrame(cmd.OutOrStdout(), f)
	},
}

func init() {
	showCmd.Flags().StringVar(&showBackend, "backend", "slicetable", "Backend to load the file onto.")
	showCmd.Flags().StringVar(&showColumns, "columns", "", "Comma-separated columns to keep.")
	showCmd.Flags().IntVar(&showHead, "head", -1, "Print only the first n rows.")
	rootCmd.AddCommand(showCmd)
}
