// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"gwasdb/internal/cliutil"
	"gwasdb/internal/config"
	"gwasdb/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	ConfigFile string

	// Input / output locations
	Root   string
	Target string
	OutDir string

	// Resolution
	DefaultN int

	// Logging
	LogFile   string
	LogLevel  string
	LogFormat string

	// Sinks
	DB     string
	Report string

	Quiet   bool
	Version bool

	// set records flags given explicitly, so only those override the config file.
	set map[string]bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: normalize GWAS summary statistics into p-value and location tables

Version: %s

Usage of %s:
  %s [flags] [ROOT]

ROOT (or --root) is walked for .gz files. For each file, <name>_p.txt
(rsid, p, n) and <name>_loc.txt (rsid, chromosome, position) are written
to --out-dir, and the archive is moved to --target.

Flags:
`, name, version.Version, name, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.ConfigFile, "config", "", "YAML config file; flags override its keys")

	fs.StringVar(&opt.Root, "root", "", "directory walked for .gz summary statistics [*]")
	fs.StringVar(&opt.Target, "target", "", "directory receiving processed .gz archives [*]")
	fs.StringVar(&opt.OutDir, "out-dir", ".", "directory for _p.txt and _loc.txt tables [.]")

	fs.IntVar(&opt.DefaultN, "default-n", 42212, "sample size used when no n column exists (0 = reject such files) [42212]")

	fs.StringVar(&opt.LogFile, "log-file", "", "log file (default ROOT/"+config.LogFileName+")")
	fs.StringVar(&opt.LogLevel, "log-level", "debug", "log level: trace | debug | info | warn | error [debug]")
	fs.StringVar(&opt.LogFormat, "log-format", "console", "log format: console | json [console]")

	fs.StringVar(&opt.DB, "db", "", "also load tables into sqlite:<path> or postgres://… []")
	fs.StringVar(&opt.Report, "report", config.ReportText, "run summary on stdout: text | json [text]")

	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress WARN lines on stderr [false]")
	fs.BoolVar(&opt.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	opt.set = cliutil.SetFlags(fs)
	if opt.Version {
		return opt, nil
	}

	switch len(posArgs) {
	case 0:
	case 1:
		if opt.Root != "" {
			return opt, errors.New("ROOT given both as --root and as an argument")
		}
		opt.Root = posArgs[0]
		opt.set["root"] = true
	default:
		return opt, fmt.Errorf("expected at most one ROOT argument, got %d", len(posArgs))
	}

	if opt.DefaultN < 0 {
		return opt, errors.New("--default-n must be ≥ 0")
	}
	if opt.ConfigFile == "" && (opt.Root == "" || opt.Target == "") {
		return opt, errors.New("provide ROOT and --target, or --config")
	}
	return opt, nil
}

// Apply overlays the explicitly given flags onto c. Without a config file
// every flag applies, defaults included.
func (o Options) Apply(c *config.Config) {
	use := func(name string) bool { return o.ConfigFile == "" || o.set[name] }
	if use("root") {
		c.Root = o.Root
	}
	if use("target") {
		c.Target = o.Target
	}
	if use("out-dir") {
		c.OutDir = o.OutDir
	}
	if use("default-n") {
		c.DefaultN = o.DefaultN
	}
	if use("log-file") {
		c.LogFile = o.LogFile
	}
	if use("log-level") {
		c.LogLevel = o.LogLevel
	}
	if use("log-format") {
		c.LogFormat = o.LogFormat
	}
	if use("db") {
		c.DB = o.DB
	}
	if use("report") {
		c.Report = o.Report
	}
}
