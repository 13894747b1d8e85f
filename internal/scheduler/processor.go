package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pagerank-bench/internal/graph"
	"github.com/pagerank-bench/internal/pagerank"
	"github.com/pagerank-bench/internal/repository"
	"github.com/pagerank-bench/internal/storage"
	"github.com/pagerank-bench/pkg/config"
	"github.com/pagerank-bench/pkg/model"
	"github.com/pagerank-bench/pkg/utils"
	"github.com/pagerank-bench/pkg/writer"
)

// DefaultTaskProcessor implements TaskProcessor by loading a run's graph,
// solving it, and persisting the result.
type DefaultTaskProcessor struct {
	config  *config.Config
	storage storage.Storage
	repos   *repository.Repositories
	logger  utils.Logger

	rankWriter *writer.JSONWriter[model.RankVector]
}

// ProcessorConfig holds processor configuration.
type ProcessorConfig struct {
	Config  *config.Config
	Storage storage.Storage
	Repos   *repository.Repositories
	Logger  utils.Logger
}

// NewDefaultTaskProcessor creates a new DefaultTaskProcessor.
func NewDefaultTaskProcessor(cfg *ProcessorConfig) *DefaultTaskProcessor {
	if cfg.Logger == nil {
		cfg.Logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}

	return &DefaultTaskProcessor{
		config:     cfg.Config,
		storage:    cfg.Storage,
		repos:      cfg.Repos,
		logger:     cfg.Logger,
		rankWriter: writer.NewJSONWriter[model.RankVector](),
	}
}

// Process loads run's graph, solves it, and persists the result.
func (p *DefaultTaskProcessor) Process(ctx context.Context, run *model.Run) error {
	log := utils.WithRun(p.logger, run.RunUUID)
	log.Info("Starting solve (graph: %s, variant: %s)",
		run.GraphName, run.Options.Variant)

	workDir, err := os.MkdirTemp("", "pagerank-run-"+run.RunUUID+"-")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			log.Warn("Failed to clean up work directory %s: %v", workDir, rmErr)
		}
	}()

	timer := utils.NewTimer("run-"+run.RunUUID, utils.WithLogger(log))

	localFile := filepath.Join(workDir, filepath.Base(run.GraphName))
	fetch := timer.Start("fetch")
	if err := p.storage.DownloadFile(ctx, run.GraphName, localFile); err != nil {
		return fmt.Errorf("failed to download graph %s: %w", run.GraphName, err)
	}

	g, err := p.loadGraph(localFile)
	fetch.Stop()
	if err != nil {
		return fmt.Errorf("failed to load graph %s: %w", run.GraphName, err)
	}

	opts := run.Options.ToPagerankOptions()
	solve := timer.Start("solve")
	res, err := pagerank.Run(ctx, g, opts, nil, log)
	solve.Stop()
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}

	run.ApplyResult(res)

	persist := timer.Start("persist")
	ranksKey, err := p.uploadRanks(ctx, workDir, run, res)
	if err != nil {
		log.Warn("Failed to upload rank vector: %v", err)
	} else {
		run.RanksFile = ranksKey
	}

	if err := p.repos.Run.CompleteRun(ctx, run.RunUUID, run); err != nil {
		return fmt.Errorf("failed to record run completion: %w", err)
	}
	persist.Stop()

	log.Info("Solved in %d iterations, %.2fms (corrected %.2fms)",
		res.Iterations, res.TimeMs, res.CorrectedTimeMs)
	timer.PrintSummary()
	return nil
}

// loadGraph dispatches to the Matrix Market or temporal edge-list reader
// based on the graph's file extension, falling back to the configured
// default format for extensionless names.
func (p *DefaultTaskProcessor) loadGraph(localFile string) (*graph.EdgeListGraph, error) {
	file, err := os.Open(localFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	format := p.config.Graph.DefaultFormat
	switch strings.ToLower(filepath.Ext(localFile)) {
	case ".mtx":
		format = "mtx"
	case ".tsv", ".temporal":
		format = "temporal"
	}

	switch format {
	case "temporal":
		return graph.ReadTemporalEdgeList(file)
	default:
		return graph.ReadMatrixMarket(file)
	}
}

// uploadRanks serializes the solved rank vector and uploads it to object
// storage, returning its storage key.
func (p *DefaultTaskProcessor) uploadRanks(ctx context.Context, workDir string, run *model.Run, res *pagerank.Result) (string, error) {
	rv := model.NewRankVector(run.RunUUID, res)

	localPath := filepath.Join(workDir, "ranks.json")
	if err := p.rankWriter.WriteToFile(rv, localPath); err != nil {
		return "", fmt.Errorf("failed to write rank vector: %w", err)
	}

	key := fmt.Sprintf("runs/%s/ranks.json", run.RunUUID)
	if err := p.storage.UploadFile(ctx, key, localPath); err != nil {
		return "", fmt.Errorf("failed to upload rank vector: %w", err)
	}
	return key, nil
}
