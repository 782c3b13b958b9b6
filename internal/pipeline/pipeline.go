// Package pipeline drives a full run: walk a directory tree of Python
// sources, resolve the question catalog against each file, write the
// per-file artifacts, then combine everything into the canonical datasets.
// Per-file work is independent and runs on a bounded worker pool; the
// aggregation step runs strictly after all producers finish.
package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"code2dataset/internal/aggregate"
	"code2dataset/internal/capability"
	"code2dataset/internal/codegraph"
	"code2dataset/internal/dataset"
	"code2dataset/internal/fileio"
	"code2dataset/internal/pyast"
)

const defaultWorkers = 4

// Options configures one run.
type Options struct {
	// StartPath is the directory searched recursively for Python sources.
	StartPath string
	// OutputDir receives per-file artifacts and the canonical datasets.
	OutputDir string

	// QuestionsPath overrides the embedded question catalog when set.
	QuestionsPath string
	// ModelConfigPath locates the model configuration consulted when UseLLM
	// is set.
	ModelConfigPath string
	// UseLLM requests model delegation for purpose-kind questions. It is
	// flipped off for the whole run when the model cannot be loaded.
	UseLLM bool

	// Graph additionally exports each file's code graphs as DOT.
	Graph bool

	// Workers bounds per-file parallelism. Zero means defaultWorkers.
	Workers int

	Logger *zap.Logger
}

// Run executes the pipeline.
func Run(ctx context.Context, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("run_id", uuid.NewString()[:8]))

	info, err := os.Stat(opts.StartPath)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("start path is not a directory: %s", opts.StartPath)
	}

	catalog, err := loadCatalog(opts.QuestionsPath)
	if err != nil {
		return err
	}

	model, promptTemplate := loadCapability(&opts, log)

	files, err := findPythonFiles(opts.StartPath)
	if err != nil {
		return fmt.Errorf("scan %s: %w", opts.StartPath, err)
	}
	log.Info("processing files",
		zap.Int("count", len(files)),
		zap.Bool("use_llm", opts.UseLLM),
		zap.String("output_dir", opts.OutputDir))

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	// Model-delegated runs stay sequential: delegation is a blocking call
	// and interleaving requests gives no ordering guarantees worth having.
	if model != nil {
		workers = 1
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, file := range files {
		g.Go(func() error {
			return processFile(groupCtx, file, catalog, model, promptTemplate, opts, log)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return aggregate.Combine(opts.OutputDir, log)
}

func loadCatalog(path string) ([]dataset.Question, error) {
	if path == "" {
		return dataset.DefaultCatalog(), nil
	}
	return dataset.LoadCatalog(path)
}

// loadCapability resolves the model capability when requested. Every failure
// disables delegation for the run and clears the configuration, so behavior
// downstream matches a run started without --use-llm.
func loadCapability(opts *Options, log *zap.Logger) (capability.Capability, string) {
	if !opts.UseLLM {
		return nil, ""
	}
	cfg, err := capability.LoadModelConfig(opts.ModelConfigPath)
	if err != nil {
		log.Error("model config unavailable, continuing without delegation", zap.Error(err))
		opts.UseLLM = false
		return nil, ""
	}
	handle, err := capability.New(cfg)
	if err != nil {
		log.Error("model capability unavailable, continuing without delegation", zap.Error(err))
		opts.UseLLM = false
		return nil, ""
	}
	log.Info("model capability loaded", zap.String("capability", handle.Name()))
	return handle, cfg.PromptTemplate
}

// findPythonFiles returns every .py file under root in lexical walk order,
// skipping hidden directories and files whose basename starts with an
// underscore.
func findPythonFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".py") || strings.HasPrefix(name, "_") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// processFile analyzes one source file, resolves the catalog against it, and
// writes the per-file artifact set. Files that fail to parse are skipped;
// resolution and write failures propagate.
func processFile(ctx context.Context, path string, catalog []dataset.Question, model capability.Capability, promptTemplate string, opts Options, log *zap.Logger) error {
	rel, err := filepath.Rel(opts.StartPath, path)
	if err != nil {
		return err
	}
	baseName := strings.Join(strings.Split(filepath.ToSlash(rel), "/"), ".")
	log.Info("processing", zap.String("file", rel))

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	details, err := pyast.NewAnalyzer(log).Analyze(ctx, path, content)
	if err != nil {
		log.Warn("skipping unparseable file", zap.String("file", rel), zap.Error(err))
		return nil
	}

	gen := dataset.NewGenerator(dataset.GeneratorConfig{
		BaseName:       baseName,
		Details:        details,
		Catalog:        catalog,
		Capability:     model,
		PromptTemplate: promptTemplate,
		Logger:         log,
	})
	qa, instruct, err := gen.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generate %s: %w", rel, err)
	}
	if len(qa) == 0 {
		log.Debug("no records produced", zap.String("file", rel))
		return nil
	}

	outDir := filepath.Join(opts.OutputDir, filepath.Dir(rel))
	if err := fileio.Write(filepath.Join(outDir, baseName+".qa.json"), qa); err != nil {
		return err
	}
	if err := fileio.Write(filepath.Join(outDir, baseName+".instruct.json"), instruct); err != nil {
		return err
	}
	if err := fileio.Write(filepath.Join(outDir, baseName+".details.yaml"), details); err != nil {
		return err
	}

	if opts.Graph {
		if err := codegraph.ExportFile(details, baseName, outDir); err != nil {
			return err
		}
	}
	return nil
}
