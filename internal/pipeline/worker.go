package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/listtree/internal/parser"
	"github.com/dgallion1/listtree/internal/stats"
)

// Worker parses one job at a time.
type Worker struct {
	stats       *stats.ParseStats
	log         *slog.Logger
	pdfFallback bool
}

func NewWorker(st *stats.ParseStats, log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{
		stats:       st,
		log:         log,
		pdfFallback: pdfFallback,
	}
}

// Process parses the job's file and stores the forest on the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "canceled")
		return
	}

	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, job.Options)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = w.pdfFallback
	}

	start := time.Now()
	tree, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	took := time.Since(start)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	job.Complete(tree, took)
	snap := job.Snapshot()
	if w.stats != nil {
		w.stats.Record(took, snap.Summary.Nodes)
	}
	log.Info("parsed document",
		"roots", snap.Summary.Roots,
		"nodes", snap.Summary.Nodes,
		"max_depth", snap.Summary.MaxDepth,
		"duration_ms", snap.Summary.DurationMs,
	)
}
