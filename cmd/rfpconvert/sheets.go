package main

import (
	"github.com/spf13/cobra"

	convert "github.com/aerissecure/rfpconvert"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets [files...]",
	Short: "List the requirement sheets of the workbooks",
	Long: `Sheets prints the names of the sheets that would be converted: every sheet
except the first of each workbook, in order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := convert.ListSheets(cmd.Context(), args)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("output")
		return printList(cmd.OutOrStdout(), format, "sheets", names)
	},
}

func init() {
	sheetsCmd.Flags().StringP("output", "o", "text", "output format: text or yaml")
	rootCmd.AddCommand(sheetsCmd)
}
