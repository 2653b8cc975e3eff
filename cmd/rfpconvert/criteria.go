package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	convert "github.com/aerissecure/rfpconvert"
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria [files...]",
	Short: "List the criteria columns of the workbooks",
	Long: `Criteria prints the distinct criteria column names of every requirement
sheet in first-seen order. With -o yaml the list can be pasted into
rfpconvert.yaml.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := convert.ListCriteria(cmd.Context(), args)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("output")
		return printList(cmd.OutOrStdout(), format, "criteria", names)
	},
}

func init() {
	criteriaCmd.Flags().StringP("output", "o", "text", "output format: text or yaml")
	rootCmd.AddCommand(criteriaCmd)
}

// printList writes items one per line, or as a YAML document with the list
// under key.
func printList(w io.Writer, format, key string, items []string) error {
	switch format {
	case "text", "":
		for _, s := range items {
			fmt.Fprintln(w, s)
		}
		return nil
	case "yaml":
		if items == nil {
			items = []string{}
		}
		b, err := yaml.Marshal(map[string][]string{key: items})
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("unknown output format %q, want text or yaml", format)
}
