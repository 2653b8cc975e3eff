// Package main is the entry point for the rfpconvert CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	convert "github.com/aerissecure/rfpconvert"
	"github.com/aerissecure/rfpconvert/docx"
	"github.com/aerissecure/rfpconvert/internal/progress"
)

// rootCmd converts the workbooks named on the command line.
var rootCmd = &cobra.Command{
	Use:   "rfpconvert [files...]",
	Short: "Convert requirement spreadsheets into a Word document",
	Long: `rfpconvert reads requirement lists from xls and xlsx workbooks and writes
them to a single docx document. Rows styled as headings become numbered
headings, all other rows become requirements; a leading "-" or "--" nests a
requirement one or two levels deeper.

Criteria columns (checkmarks next to each requirement) select which rows are
kept; list them with the criteria subcommand.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rfpconvert.yaml or ~/.config/rfpconvert/rfpconvert.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug messages")

	f := rootCmd.Flags()
	f.StringP("format", "f", docx.FormatList, fmt.Sprintf("output format, one of %v", docx.Formats))
	f.StringP("output", "o", "", "output document (default: <inputs>_<ddmmyyyy>.docx next to the first input)")
	f.StringP("dir", "d", "", "directory for the default output document")
	f.String("title", "", "document title (default: workbook title or output name)")
	f.String("author", "", "document author (default: workbook author)")
	f.Bool("no-progress", false, "do not display progress")
	addSelectionFlags(f)
}

// addSelectionFlags adds the row selection flags shared by convert and count.
func addSelectionFlags(f *pflag.FlagSet) {
	f.StringArrayP("criterion", "c", nil, "keep rows checked for this criterion (repeatable)")
	f.StringArrayP("sheet", "s", nil, "only convert this sheet (repeatable)")
}

// loadConfig reads the config file and environment and binds the flags of
// cmd, which take precedence.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("rfpconvert")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "rfpconvert"))
		}
	}
	v.SetEnvPrefix("RFPCONVERT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	for key, flag := range map[string]string{"criteria": "criterion", "sheets": "sheet"} {
		if fl := cmd.Flags().Lookup(flag); fl != nil {
			if err := v.BindPFlag(key, fl); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}

// options builds the run options from v, input files from args replacing
// any configured ones.
func options(cmd *cobra.Command, v *viper.Viper, args []string) (convert.Options, error) {
	var opts convert.Options
	if err := v.Unmarshal(&opts); err != nil {
		return opts, fmt.Errorf("config: %w", err)
	}
	if len(args) > 0 {
		opts.Paths = args
	}
	if len(opts.Paths) == 0 {
		return opts, errors.New("no input files")
	}
	opts.Logger = newLogger(cmd, v)
	return opts, nil
}

func newLogger(cmd *cobra.Command, v *viper.Viper) *slog.Logger {
	level := slog.LevelInfo
	if v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	v, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := options(cmd, v, args)
	if err != nil {
		return err
	}
	if opts.Output == "" {
		opts.Output = convert.OutputFileName(opts.Paths, v.GetString("dir"), time.Now())
	}
	e, err := docx.New(v.GetString("format"), opts.Output)
	if err != nil {
		return err
	}

	run := convert.New(opts, e)
	defer run.Close()

	out := cmd.OutOrStdout()
	f, isFile := out.(*os.File)
	switch {
	case v.GetBool("no-progress"):
		for _, err := range run.Events(ctx) {
			if err != nil {
				return err
			}
		}
	case isFile && progress.Interactive(f):
		total, err := convert.Count(ctx, opts)
		if err != nil {
			return err
		}
		if err := progress.Show(ctx, run, total, f); err != nil {
			return err
		}
	default:
		if err := progress.Plain(ctx, run, out); err != nil {
			return err
		}
	}

	stats := run.Stats()
	fmt.Fprintf(out, "%d requirements written to %s\n", stats.Requirements, opts.Output)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
