package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jcarril/tramita/internal/model"
)

// Analyzer analyzes a single target (a local file path or a URL).
type Analyzer interface {
	AnalyzeTarget(ctx context.Context, target string) (*model.Report, error)
}

// AnalyzeJob analyzes one target.
type AnalyzeJob struct {
	Target   string
	Analyzer Analyzer
}

// Execute runs the analysis for the job's target.
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.AnalyzeTarget(ctx, j.Target)
	if err != nil {
		return &AnalyzeResult{
			Target: j.Target,
			Report: nil,
			Error:  err,
		}
	}
	return &AnalyzeResult{
		Target: j.Target,
		Report: report,
		Error:  nil,
	}
}

// AnalyzeResult is the outcome of analyzing one target.
type AnalyzeResult struct {
	Target string
	Report *model.Report
	Error  error
}

// GetError returns the analysis error, if any.
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple targets concurrently.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessTargets analyzes the given targets concurrently.
func (b *BatchProcessor) ProcessTargets(ctx context.Context, targets []string) []*AnalyzeResult {
	if len(targets) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Submission and draining must overlap: with bounded queues, feeding
	// every target before collecting any result wedges large batches.
	go func() {
		defer pool.Close()
		for _, target := range targets {
			job := &AnalyzeJob{
				Target:   target,
				Analyzer: b.analyzer,
			}
			if !pool.Submit(ctx, job) {
				return
			}
		}
	}()

	results := pool.Wait()

	analyzeResults := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		analyzeResults[i] = result.(*AnalyzeResult)
	}

	return analyzeResults
}

// ProcessFile reads targets from a list file and analyzes them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalyzeResult, error) {
	targets, err := ReadTargetsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}

	return b.ProcessTargets(ctx, targets), nil
}

// ReadTargetsFromFile reads targets from a file, one per line. Empty
// lines and lines starting with '#' are skipped; duplicates kept once.
func ReadTargetsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var targets []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			targets = append(targets, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return targets, nil
}
