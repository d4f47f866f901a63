package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docchunk/chunker"
	"github.com/dgallion1/docchunk/parser"
	"github.com/dgallion1/docchunk/structure"
)

// Worker processes a single chunking job.
type Worker struct {
	log         *slog.Logger
	chunkCfg    chunker.Config
	counter     chunker.TokenCounter
	pdfFallback bool
}

func NewWorker(log *slog.Logger, chunkCfg chunker.Config, counter chunker.TokenCounter, pdfFallback bool) *Worker {
	return &Worker{
		log:         log,
		chunkCfg:    chunkCfg,
		counter:     counter,
		pdfFallback: pdfFallback,
	}
}

// Process runs the full pipeline for a job: parse, rebuild structure,
// assemble chunks.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "canceled")
		return
	}

	// Phase 1: Parse into a fragment stream.
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = w.pdfFallback
	}

	data := job.FileData()
	doc, err := p.Parse(bytes.NewReader(data), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.ContentHash = ContentHashHex(data)
	if job.Title == "" {
		job.SetTitle(doc.Title)
	}
	log.Info("parsed document", "fragments", len(doc.Fragments))

	// Phase 2: Rebuild structure and assemble chunks.
	job.SetStatus(StatusChunking, "chunking")
	tree := structure.Build(doc.Fragments)
	tree.Title = doc.Title

	cfg := w.chunkCfg
	if job.ChunkSize > 0 {
		cfg.ChunkSize = job.ChunkSize
	}
	if job.OverlapWidth > 0 {
		cfg.OverlapWidth = job.OverlapWidth
	}
	asm, err := chunker.NewAssembler(cfg, w.counter)
	if err != nil {
		log.Error("invalid chunking settings", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	chunks := asm.Assemble(tree)
	job.SetTotalChunks(len(chunks))
	job.SetChunks(chunks)
	log.Info("chunked document", "chunks", len(chunks))

	if len(chunks) == 0 {
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	job.SetStatus(StatusCompleted, "done")
}
