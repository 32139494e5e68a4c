// Command alsdef is the CLI surface over the codec core: compress and
// expand subcommands, go-flags option parsing, YAML config loading, and an
// optional pp-debug dump of the parsed document — grounded on the teacher
// repo's cmd/mysqldef option-parsing style (go-flags struct tags,
// database.ParseGeneratorConfig for YAML, log.Fatal on user error).
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"

	"github.com/k0kubun/alsdef/compress"
	"github.com/k0kubun/alsdef/config"
	"github.com/k0kubun/alsdef/convert/csv"
	"github.com/k0kubun/alsdef/internal/alslog"
	"github.com/k0kubun/alsdef/stats"
)

var version string

type options struct {
	Config    string `long:"config" description:"YAML file overriding ctx_fallback_threshold, min_pattern_length, parallelism, max_range_expansion, max_dictionary_entries, max_input_size" value-name:"config_file"`
	File      string `long:"file" short:"f" description:"Read input from the file, rather than stdin" value-name:"path" default:"-"`
	Stats     bool   `long:"stats" description:"Print a compression report to stderr"`
	DebugAST  bool   `long:"debug-ast" description:"Pretty-print the parsed document before expanding (expand only)"`
	Help      bool   `long:"help" description:"Show this help"`
	Version   bool   `long:"version" description:"Show this version"`
}

func main() {
	alslog.Init()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: alsdef <compress|expand> [options]")
		os.Exit(1)
	}
	command := os.Args[1]
	rest := os.Args[2:]

	switch command {
	case "compress":
		runCompress(rest)
	case "expand":
		runExpand(rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (expected compress or expand)\n", command)
		os.Exit(1)
	}
}

func parseOptions(args []string, usage string) *options {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = usage

	_, err := parser.ParseArgs(args)
	if err != nil {
		slog.Error("parsing options", "error", err)
		os.Exit(1)
	}
	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	return &opts
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func runCompress(args []string) {
	opts := parseOptions(args, "compress [options]")

	cfg, err := config.Load(opts.Config)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	in, err := openInput(opts.File)
	if err != nil {
		slog.Error("opening input", "error", err)
		os.Exit(1)
	}
	defer in.Close()

	td, err := csv.Read(in)
	if err != nil {
		slog.Error("reading csv", "error", err)
		os.Exit(1)
	}

	var counters *stats.Counters
	if opts.Stats {
		counters = &stats.Counters{}
	}

	text, err := compress.Compress(td, cfg, counters)
	if err != nil {
		slog.Error("compressing", "error", err)
		os.Exit(1)
	}
	fmt.Print(text)

	if counters != nil {
		report := stats.Report{Snapshot: counters.Snapshot(), Columns: counters.ColumnReports()}
		fmt.Fprint(os.Stderr, report.String())
	}
}

func runExpand(args []string) {
	opts := parseOptions(args, "expand [options]")

	cfg, err := config.Load(opts.Config)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	in, err := openInput(opts.File)
	if err != nil {
		slog.Error("opening input", "error", err)
		os.Exit(1)
	}
	defer in.Close()

	raw, err := io.ReadAll(in)
	if err != nil {
		slog.Error("reading input", "error", err)
		os.Exit(1)
	}

	if opts.DebugAST {
		doc, err := parseForDebug(string(raw), cfg)
		if err != nil {
			slog.Error("parsing document", "error", err)
			os.Exit(1)
		}
		pp.Println(doc)
	}

	var counters *stats.Counters
	if opts.Stats {
		counters = &stats.Counters{}
	}

	td, err := compress.Decompress(string(raw), cfg, counters)
	if err != nil {
		slog.Error("expanding", "error", err)
		os.Exit(1)
	}

	if err := csv.Write(os.Stdout, td); err != nil {
		slog.Error("writing csv", "error", err)
		os.Exit(1)
	}

	if counters != nil {
		report := stats.Report{Snapshot: counters.Snapshot(), Columns: counters.ColumnReports()}
		fmt.Fprint(os.Stderr, report.String())
	}
}
