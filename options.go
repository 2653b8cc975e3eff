package convert

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// Options configures a conversion run.
type Options struct {
	// Paths are the input workbooks, processed in order.
	Paths []string `mapstructure:"files" yaml:"files"`
	// Output is the document path; see OutputFileName for the default.
	Output string `mapstructure:"output" yaml:"output"`
	// Criteria selects rows by checkmark column. Empty keeps every row.
	Criteria []string `mapstructure:"criteria" yaml:"criteria"`
	// Sheets restricts the run to the named sheets. Empty means all sheets.
	Sheets []string `mapstructure:"sheets" yaml:"sheets"`
	Title  string   `mapstructure:"title" yaml:"title"`
	Author string   `mapstructure:"author" yaml:"author"`

	Logger *slog.Logger `mapstructure:"-" yaml:"-"`
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// OutputFileName derives the default document path from the input paths:
// the base names joined with "_" and suffixed with the date as ddmmyyyy, in
// dir or, when dir is empty, next to the first input.
func OutputFileName(paths []string, dir string, now time.Time) string {
	if len(paths) == 0 {
		return ""
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		base := filepath.Base(p)
		names[i] = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if dir == "" {
		dir = filepath.Dir(paths[0])
	}
	return filepath.Join(dir, strings.Join(names, "_")+"_"+now.Format("02012006")+".docx")
}
