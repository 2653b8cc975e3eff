package main

import (
	"fmt"

	"github.com/spf13/cobra"

	convert "github.com/aerissecure/rfpconvert"
)

var countCmd = &cobra.Command{
	Use:   "count [files...]",
	Short: "Count the rows a conversion would keep",
	Long: `Count runs the conversion without writing a document and prints the number
of rows that pass the criteria and sheet selection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts, err := options(cmd, v, args)
		if err != nil {
			return err
		}
		n, err := convert.Count(cmd.Context(), opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

func init() {
	addSelectionFlags(countCmd.Flags())
	rootCmd.AddCommand(countCmd)
}
