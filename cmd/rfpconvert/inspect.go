package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aerissecure/rfpconvert/docx"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.docx>",
	Short: "Print the outline of a generated document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := docx.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), docx.RenderDocumentOutline(m))
		return err
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
