package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	kerrors "kgram/internal/errors"
)

// CorpusOptions are shared by the commands that vectorize a corpus.
type CorpusOptions struct {
	ConfigPath string
	K          optionalInt
	SampleSize optionalInt
	Seed       optionalInt
	SkipErrors bool
	NoProgress bool
	Inputs     []string
}

type VectorizeOptions struct {
	Corpus CorpusOptions
	Prefix string
}

type BrowseOptions struct {
	Corpus CorpusOptions
	TopK   int
}

type ClusterOptions struct {
	ConfigPath string
	Clusters   optionalInt
	Restarts   optionalInt
	Seed       optionalInt
	Init       string
	MatrixPath string
	NamesPath  string
	OutPath    string
}

// optionalInt implements flag.Value for integer flags that override config
type optionalInt struct {
	name  string
	value *int
}

func (o *optionalInt) String() string {
	if o.value == nil {
		return ""
	}
	return strconv.Itoa(*o.value)
}

func (o *optionalInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return kerrors.NewConfigurationError(o.name, s, "must be an integer")
	}
	o.value = &v
	return nil
}

// enumFlag implements flag.Value for restricted strings
type enumFlag struct {
	allowed []string
	value   *string
}

func (e *enumFlag) String() string {
	if e.value == nil {
		return ""
	}
	return *e.value
}

func (e *enumFlag) Set(value string) error {
	for _, a := range e.allowed {
		if a == value {
			*e.value = value
			return nil
		}
	}
	return fmt.Errorf("allowed values are %s", strings.Join(e.allowed, ", "))
}

func parseMainArgs(args []string, ui UI) (string, []string, error) {
	fs := flag.NewFlagSet("kgram", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	setupUsage(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return "", nil, err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return "", nil, err
	}

	if fs.NArg() == 0 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return "", nil, errors.New("no command provided")
	}

	return fs.Arg(0), fs.Args()[1:], nil
}

func corpusFlags(fs *flag.FlagSet, opts *CorpusOptions) {
	opts.K.name = "k"
	opts.SampleSize.name = "sample"
	opts.Seed.name = "seed"
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config (default ./kgram.yaml or ~/.config/kgram/config.yaml)")
	fs.Var(&opts.K, "k", "Words per k-gram (overrides config)")
	fs.Var(&opts.SampleSize, "sample", "Maximum k-grams kept per document (overrides config)")
	fs.Var(&opts.Seed, "seed", "Sampling seed, 0 for random (overrides config)")
	fs.BoolVar(&opts.SkipErrors, "skip-errors", false, "Skip documents that fail instead of aborting")
	fs.BoolVar(&opts.NoProgress, "no-progress", false, "Do not draw a progress bar")
}

// parse runs fs.Parse with the error reporting shared by all subcommands.
func parse(fs *flag.FlagSet, args []string, ui UI) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return err
	}
	return nil
}

func parseVectorizeArgs(args []string, ui UI) (VectorizeOptions, error) {
	fs := flag.NewFlagSet("vectorize", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts VectorizeOptions
	corpusFlags(fs, &opts.Corpus)
	fs.StringVar(&opts.Prefix, "o", "", "Output prefix (overrides config output.prefix)")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s vectorize [options] <input>...\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Write the k-gram presence matrix to <prefix>.csv and the document names to <prefix>_Names.txt.\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Inputs are files, directories or glob patterns.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := parse(fs, args, ui); err != nil {
		return opts, err
	}

	if fs.NArg() == 0 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, errors.New("vectorize needs at least one input")
	}

	opts.Corpus.Inputs = fs.Args()
	return opts, nil
}

func parseBrowseArgs(args []string, ui UI) (BrowseOptions, error) {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts BrowseOptions
	corpusFlags(fs, &opts.Corpus)
	fs.IntVar(&opts.TopK, "n", 10, "Number of similar documents to list")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s browse [options] <input>...\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Vectorize the inputs and browse documents by k-gram similarity.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := parse(fs, args, ui); err != nil {
		return opts, err
	}

	if fs.NArg() == 0 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, errors.New("browse needs at least one input")
	}

	opts.Corpus.Inputs = fs.Args()
	return opts, nil
}

func parseClusterArgs(args []string, ui UI) (ClusterOptions, error) {
	fs := flag.NewFlagSet("cluster", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts ClusterOptions
	opts.Clusters.name = "clusters"
	opts.Restarts.name = "restarts"
	opts.Seed.name = "seed"
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config")
	fs.Var(&opts.Clusters, "clusters", "Number of clusters (overrides config)")
	fs.Var(&opts.Restarts, "restarts", "Number of restarts (overrides config)")
	fs.Var(&opts.Seed, "seed", "Random seed, 0 for random (overrides config)")
	fs.Var(&enumFlag{allowed: []string{"plusplus", "gonzalez"}, value: &opts.Init}, "init", "Seeding: plusplus or gonzalez (overrides config)")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s cluster [options] <matrix.csv> <names.txt> <out>\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Group the rows of a vectorized corpus with Lloyd's algorithm.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := parse(fs, args, ui); err != nil {
		return opts, err
	}

	if fs.NArg() != 3 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, errors.New("cluster needs exactly three arguments: <matrix.csv> <names.txt> <out>")
	}

	opts.MatrixPath, opts.NamesPath, opts.OutPath = fs.Arg(0), fs.Arg(1), fs.Arg(2)
	return opts, nil
}

func setupUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: %s command [command options] [arguments...]\n", os.Args[0])
		_, _ = fmt.Fprintf(output, "\nDescription:\n")
		_, _ = fmt.Fprintf(output, "  Bag-of-k-grams corpus vectorizer\n")
		_, _ = fmt.Fprintf(output, "\nCommands:\n")
		_, _ = fmt.Fprintf(output, "  vectorize  Write the presence matrix and document names.\n")
		_, _ = fmt.Fprintf(output, "  browse     Browse documents by k-gram similarity.\n")
		_, _ = fmt.Fprintf(output, "  cluster    Cluster a written matrix with Lloyd's algorithm.\n")
		_, _ = fmt.Fprintf(output, "  help       Show help for a command.\n")
	}
}
