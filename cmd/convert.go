package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remora-data/remora/convert"
)

var convertFrom string
var convertTo string
var convertPrint bool

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Load a file onto one backend, convert it to another, and report the conversion.",
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

		sourceKind, err := parseKind(convertFrom)
		if err != nil {
			return err
		}
		targetKind, err := parseKind(convertTo)
		if err != nil {
			return err
		}

		f, err := loadFrame(args[0], sourceKind, mode, logger)
		if err != nil {
			return err
		}

		out, record, err := convert.Convert(f, targetKind, mode, convert.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("couldn't convert to '%s': %w", targetKind, err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), record)
		if convertPrint {
			return printFrame(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "slicetable", "Backend to load the file onto.")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "Backend to convert to.")
	convertCmd.MarkFlagRequired("to")
	convertCmd.Flags().BoolVar(&convertPrint, "print", false, "Print the converted table.")
	rootCmd.AddCommand(convertCmd)
}
