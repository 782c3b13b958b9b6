package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"code2dataset/internal/aggregate"
	"code2dataset/internal/pipeline"
)

var (
	// Global flags
	useLLM          bool
	graph           bool
	quiet           bool
	verbose         bool
	outputDir       string
	modelConfigPath string
	questionsPath   string
	workers         int

	// Logger
	logger *zap.Logger
)

// rootCmd processes a directory tree and produces the datasets.
var rootCmd = &cobra.Command{
	Use:   "code2dataset [directory]",
	Short: "Generate QA and instruction datasets from Python source trees",
	Long: `code2dataset walks a directory of Python files, extracts per-file
metadata (functions, classes, methods, code graphs), resolves a question
catalog against that metadata, and writes per-file QA and instruction
datasets plus canonical merged collections.

With --use-llm, purpose-style questions are delegated to a generative model
declared in the model configuration file; without it (or when the model
cannot be loaded) answers come from the extracted metadata alone.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else if quiet {
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.Run(cmd.Context(), pipeline.Options{
			StartPath:       args[0],
			OutputDir:       outputDir,
			QuestionsPath:   questionsPath,
			ModelConfigPath: modelConfigPath,
			UseLLM:          useLLM,
			Graph:           graph,
			Workers:         workers,
			Logger:          logger,
		})
	},
}

// combineCmd re-runs only the aggregation step over an existing output tree.
var combineCmd = &cobra.Command{
	Use:   "combine [output-dir]",
	Short: "Merge existing per-file datasets into the canonical collections",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := outputDir
		if len(args) > 0 {
			root = args[0]
		}
		return aggregate.Combine(root, logger)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "only log warnings and errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "datasets", "directory for generated datasets")

	rootCmd.Flags().BoolVar(&useLLM, "use-llm", false, "delegate purpose questions to the configured model")
	rootCmd.Flags().BoolVar(&graph, "graph", false, "export code graphs as Graphviz DOT files")
	rootCmd.Flags().StringVar(&modelConfigPath, "model-config", "model_config.yaml", "model configuration file")
	rootCmd.Flags().StringVar(&questionsPath, "questions", "", "question catalog file (default: built-in catalog)")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "per-file parallelism (0 = auto)")

	rootCmd.AddCommand(combineCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
