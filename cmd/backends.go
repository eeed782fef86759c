package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/remora-data/remora/backend"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List registered backends and their capabilities.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := newTableWriter(cmd.OutOrStdout(), []string{"backend", "mode", "residency", "exchange", "native ops", "version"})
		for _, kind := range backend.Kinds() {
			driver, err := backend.Get(kind)
			if err != nil {
				return fmt.Errorf("couldn't get backend '%s': %w", kind, err)
			}
			id := driver.Identity()
			caps := driver.Capabilities()

			native := 0
			for _, op := range caps.Operations() {
				if caps.Level(op) == backend.SupportNative {
					native++
				}
			}

			table.Append([]string{
				id.Kind.String(),
				id.Mode.String(),
				id.Residency.String(),
				strconv.FormatBool(id.SupportsExchange),
				strconv.Itoa(native),
				id.Version,
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}
