package main

import (
	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/logger"
)

// app carries the global flags and the loaded configuration.
type app struct {
	configPath string
	maxHops    int
	workers    int
	outputDir  string
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ontocompare",
		Short: "Compare the Arabic Ontology hierarchy with Arabic WordNet hypernyms",
		Long: `ontocompare maps ontology concepts to WordNet synsets through normalized
lemmas and checks, for every subTypeOf pair, whether a short hypernym path
connects the child's synsets to the parent's.

Each pair is classified as AGREE, DISAGREE, PARTIAL_CHILD_ONLY,
PARTIAL_PARENT_ONLY or UNMATCHABLE.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.New(apperrors.ErrInvalidConfig, err.Error())
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	pf.IntVar(&a.maxHops, "max-hops", 8, "maximum hypernym hops searched from each child synset")
	pf.IntVar(&a.workers, "workers", 0, "classification workers (0 = GOMAXPROCS)")
	pf.StringVar(&a.outputDir, "output-dir", "", "directory for reports (overrides report.outputDir)")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newCompareCmd(a),
		newValidateCmd(a),
		newMatchesCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// loadConfig layers flags that were set explicitly over the file and
// environment configuration, then validates the result.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return apperrors.Newf(apperrors.ErrInvalidConfig, "%v", err)
	}
	flags := cmd.Flags()
	if flags.Changed("max-hops") {
		cfg.Compare.MaxHops = a.maxHops
	}
	if flags.Changed("workers") {
		cfg.Compare.Workers = a.workers
	}
	if flags.Changed("output-dir") {
		cfg.Report.OutputDir = a.outputDir
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	a.cfg = cfg
	return nil
}
