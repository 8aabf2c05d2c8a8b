package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"kgram/internal/cluster"
	"kgram/internal/config"
	"kgram/internal/domain"
	"kgram/internal/embedding/presence"
	kerrors "kgram/internal/errors"
	"kgram/internal/kgram"
	"kgram/internal/output"
	"kgram/internal/sample"
	"kgram/internal/service"
	"kgram/internal/summarizer"
	"kgram/internal/tui"
	"kgram/internal/vectorstore/memory"
	"kgram/internal/vectorstore/sqlite"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	_ = godotenv.Load()
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	cmd, args, err := parseMainArgs(os.Args[1:], ui)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := runCommand(cmd, args, ui); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "kgram: %v\n", err)
}

func runCommand(cmd string, args []string, ui UI) error {
	switch cmd {
	case "help":
		if len(args) > 0 {
			return runCommand(args[0], []string{"--help"}, ui)
		}
		fs := flag.NewFlagSet("kgram", flag.ContinueOnError)
		fs.SetOutput(ui.Out)
		setupUsage(fs)
		fs.Usage()
		return nil

	case "vectorize":
		opts, err := parseVectorizeArgs(args, ui)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
		return vectorizeCommand(opts, ui)

	case "browse":
		opts, err := parseBrowseArgs(args, ui)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
		return browseCommand(opts, ui)

	case "cluster":
		opts, err := parseClusterArgs(args, ui)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
		return clusterCommand(opts, ui)
	}

	return fmt.Errorf("unknown command: %s", cmd)
}

// Vectorize command
func vectorizeCommand(opts VectorizeOptions, ui UI) error {
	cfg, err := corpusConfig(opts.Corpus)
	if err != nil {
		return err
	}
	if opts.Prefix != "" {
		cfg.Output.Prefix = opts.Prefix
	}

	p, closeStore, err := buildPipeline(cfg, opts.Corpus, ui)
	if err != nil {
		return err
	}
	defer closeStore()

	summary, err := p.IngestDocuments(opts.Corpus.Inputs)
	if err != nil {
		return err
	}
	res := p.Result()
	if err := output.WriteFiles(cfg.Output.Prefix, res.Names(), res.Vectors); err != nil {
		return err
	}

	matrixPath, namesPath := output.Paths(cfg.Output.Prefix)
	_, _ = fmt.Fprintln(ui.Out, summary)
	_, _ = fmt.Fprintf(ui.Out, "Wrote %d x %d matrix to %s and names to %s\n", len(res.Vectors), len(res.Terms), matrixPath, namesPath)
	if n := len(res.Skipped); n > 0 {
		_, _ = fmt.Fprintf(ui.Out, "Skipped %d documents\n", n)
	}
	return nil
}

// Browse command
func browseCommand(opts BrowseOptions, ui UI) error {
	cfg, err := corpusConfig(opts.Corpus)
	if err != nil {
		return err
	}
	p, closeStore, err := buildPipeline(cfg, opts.Corpus, ui)
	if err != nil {
		return err
	}
	defer closeStore()

	summary, err := p.IngestDocuments(opts.Corpus.Inputs)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(tui.New(p, summary, opts.TopK), tea.WithAltScreen()).Run()
	return err
}

// Cluster command
func clusterCommand(opts ClusterOptions, ui UI) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	c := cfg.Cluster
	if opts.Clusters.value != nil {
		c.Clusters = *opts.Clusters.value
	}
	if opts.Restarts.value != nil {
		c.Restarts = *opts.Restarts.value
	}
	if opts.Init != "" {
		c.Init = opts.Init
	}
	if opts.Seed.value != nil {
		if *opts.Seed.value < 0 {
			return kerrors.NewConfigurationError("seed", strconv.Itoa(*opts.Seed.value), "must be a non-negative integer")
		}
		c.Seed = uint64(*opts.Seed.value)
	}

	rows, err := readFile(opts.MatrixPath, output.ReadMatrix)
	if err != nil {
		return err
	}
	names, err := readFile(opts.NamesPath, output.ReadNames)
	if err != nil {
		return err
	}
	if len(rows) != len(names) {
		return fmt.Errorf("%s has %d rows but %s has %d names", opts.MatrixPath, len(rows), opts.NamesPath, len(names))
	}

	var rng *rand.Rand
	if c.Seed != 0 {
		rng = rand.New(rand.NewPCG(c.Seed, c.Seed))
	}
	res, err := cluster.Run(rows, cluster.Options{
		Clusters: c.Clusters,
		Restarts: c.Restarts,
		Seeding:  cluster.Seeding(c.Init),
		Rand:     rng,
	})
	if err != nil {
		return err
	}
	err = output.WriteFile(opts.OutPath, func(w io.Writer) error {
		return cluster.WriteClusters(w, c.Clusters, res.Assign, names)
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ui.Out, "Clustered %d documents into %d clusters (cost %.4f), written to %s\n", len(rows), c.Clusters, res.Cost, opts.OutPath)
	return nil
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	return read(f)
}

func loadConfig(path string) (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if path == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// corpusConfig layers flags over env over the config file and validates the result.
func corpusConfig(opts CorpusOptions) (*config.AppConfig, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.K.value != nil {
		cfg.KGram.K = *opts.K.value
	}
	if opts.SampleSize.value != nil {
		n := *opts.SampleSize.value
		cfg.KGram.SampleSize = &n
	}
	if opts.Seed.value != nil {
		if *opts.Seed.value < 0 {
			return nil, kerrors.NewConfigurationError("seed", strconv.Itoa(*opts.Seed.value), "must be a non-negative integer")
		}
		cfg.KGram.Seed = uint64(*opts.Seed.value)
	}
	if opts.SkipErrors {
		cfg.OnError = config.OnErrorSkip
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildPipeline(cfg *config.AppConfig, opts CorpusOptions, ui UI) (*service.Pipeline, func(), error) {
	ex, err := kgram.NewExtractor(cfg.KGram.K, cfg.Boundary)
	if err != nil {
		return nil, nil, err
	}
	sm, err := sample.NewSampler(cfg.EffectiveSampleSize(), cfg.KGram.Seed)
	if err != nil {
		return nil, nil, err
	}

	var st domain.VectorStore
	closeStore := func() {}
	switch cfg.VectorStore.Type {
	case "memory", "":
		st = memory.NewStorage()
	case "sqlite":
		s, err := sqlite.NewStorage(sqlite.Config{
			Path:  cfg.VectorStore.SQLite.Path,
			RunID: cfg.VectorStore.SQLite.RunID,
		})
		if err != nil {
			return nil, nil, err
		}
		_, _ = fmt.Fprintf(ui.Err, "kgram: storing run %s in %s\n", s.RunID(), cfg.VectorStore.SQLite.Path)
		st = s
		closeStore = func() { _ = s.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	var progress domain.Progress
	if !opts.NoProgress {
		progress = newBarProgress(ui.Err)
	}
	p := service.NewPipeline(ex, sm, presence.NewEmbedder(), st, summarizer.NewFrequencySummarizer(), service.Options{
		OnError:           cfg.OnError,
		Logger:            log.New(ui.Err, "kgram: ", 0),
		Progress:          progress,
		ExcludeNames:      cfg.Input.ExcludeNames,
		Extensions:        cfg.Input.Extensions,
		SummaryMaxEntries: cfg.Summary.MaxEntries,
	})
	return p, closeStore, nil
}
