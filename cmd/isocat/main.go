// Package main provides the isocat command-line tool: it assigns long reads
// from BAM files to annotated isoforms of a gene model.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/isocat/isocat/internal/assign"
	"github.com/isocat/isocat/internal/gene"
	"github.com/isocat/isocat/internal/genedb"
	"github.com/isocat/isocat/internal/rnabam"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:     "isocat",
		Short:   "Assign long sequencing reads to annotated isoforms",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.isocat.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newAssignCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".isocat")
	}
	viper.SetEnvPrefix("ISOCAT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config file is fine.
		if cfgFile == "" {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newAssignCmd() *cobra.Command {
	var (
		gtfPath      string
		cachePath    string
		bamPaths     []string
		cagePath     string
		groupSpec    string
		ambiguity    string
		delta        int
		workers      int
		noSecondary  bool
		indelStats   bool
		countProfile bool
		saveResults  bool
	)

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign reads from BAM files to isoforms of a GTF gene model",
		Example: `  isocat assign --gtf gencode.gtf.gz --bam sample.bam
  isocat assign --gtf gencode.gtf.gz --cache genes.duckdb --bam a.bam --bam b.bam --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if len(bamPaths) == 0 {
				return fmt.Errorf("at least one --bam file is required")
			}

			params := assign.DefaultParams()
			params.Delta = delta
			params.Workers = workers
			params.NoSecondary = noSecondary
			params.IndelStats = indelStats
			params.CountExons = countProfile
			if params.ResolveAmbiguous, err = assign.ParseAmbiguityPolicy(ambiguity); err != nil {
				return err
			}

			var store *genedb.Store
			if cachePath != "" {
				if store, err = genedb.Open(cachePath); err != nil {
					return err
				}
				defer store.Close()
			}

			catalog, err := loadCatalog(gtfPath, store, logger)
			if err != nil {
				return err
			}
			logger.Info("gene model ready", zap.Int("genes", catalog.GeneCount()))

			processor := rnabam.NewProcessor(catalog, params)
			processor.SetLogger(logger)
			grouper, err := rnabam.NewReadGrouper(groupSpec)
			if err != nil {
				return err
			}
			processor.SetGrouper(grouper)
			if cagePath != "" {
				cage := rnabam.NewCagePeakFinder(params.CageShift)
				if err := cage.LoadBED(cagePath); err != nil {
					return err
				}
				processor.SetCageFinder(cage)
			}

			assignments, err := processor.ProcessBAMs(cmd.Context(), bamPaths)
			if err != nil {
				return err
			}

			if saveResults && store != nil {
				if err := store.WriteAssignments(assignments); err != nil {
					return err
				}
			}

			logSummary(logger, assignments)
			return nil
		},
	}

	cmd.Flags().StringVar(&gtfPath, "gtf", "", "gene annotation in GTF format (plain or .gz)")
	cmd.Flags().StringVar(&cachePath, "cache", "", "DuckDB gene model cache (created on first run)")
	cmd.Flags().StringArrayVar(&bamPaths, "bam", nil, "input BAM file (repeatable)")
	cmd.Flags().StringVar(&cagePath, "cage", "", "CAGE peaks in BED format")
	cmd.Flags().StringVar(&groupSpec, "read-group", "", "read grouping: file_name, read_id, or tag:XX")
	cmd.Flags().StringVar(&ambiguity, "ambiguity", "monoexon_only", "ambiguity resolution: none, monoexon_only, all")
	cmd.Flags().IntVar(&delta, "delta", assign.DefaultParams().Delta, "splice site matching tolerance in bases")
	cmd.Flags().IntVar(&workers, "workers", 0, "assignment workers per BAM file (0 = one per CPU)")
	cmd.Flags().BoolVar(&noSecondary, "no-secondary", false, "skip secondary alignments")
	cmd.Flags().BoolVar(&indelStats, "indel-stats", false, "count indels per read and near splice junctions")
	cmd.Flags().BoolVar(&countProfile, "gene-profiles", false, "attach per-gene intron profiles to assignments")
	cmd.Flags().BoolVar(&saveResults, "save", false, "store assignments in the DuckDB cache")

	return cmd
}

// loadCatalog reads the gene model from the DuckDB cache when available and
// falls back to GTF parsing, populating the cache afterwards.
func loadCatalog(gtfPath string, store *genedb.Store, logger *zap.Logger) (*gene.Catalog, error) {
	if store != nil {
		n, err := store.GeneCount()
		if err != nil {
			return nil, err
		}
		if n > 0 {
			logger.Info("loading gene model from cache", zap.Int("genes", n))
			return store.LoadCatalog()
		}
	}

	if gtfPath == "" {
		return nil, fmt.Errorf("--gtf is required when the cache is empty")
	}
	logger.Info("parsing gene annotation", zap.String("gtf", gtfPath))
	catalog := gene.NewCatalog()
	if err := gene.NewGTFLoader(gtfPath).Load(catalog); err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.SaveCatalog(catalog); err != nil {
			return nil, fmt.Errorf("populate cache: %w", err)
		}
	}
	return catalog, nil
}

func logSummary(logger *zap.Logger, assignments []*assign.ReadAssignment) {
	counts := make(map[string]int)
	for _, a := range assignments {
		counts[a.Type.String()]++
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	fields := []zap.Field{zap.Int("reads", len(assignments))}
	for _, t := range types {
		fields = append(fields, zap.Int(t, counts[t]))
	}
	logger.Info("assignment summary", fields...)
}
