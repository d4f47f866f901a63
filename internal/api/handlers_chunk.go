package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/dgallion1/docchunk/chunker"
	"github.com/dgallion1/docchunk/parser"
	"github.com/dgallion1/docchunk/structure"
)

// handleChunk runs the whole pipeline inline and returns the chunks in the
// response. Suited to small documents; larger uploads should go through the
// job queue.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	fp, err := parser.ForFile(filename)
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}
	if pp, ok := fp.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	data, err := s.readUpload(file)
	if err != nil {
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	cfg := chunker.Config{
		ChunkSize:    s.cfg.DefaultChunkSize,
		OverlapWidth: s.cfg.DefaultOverlapWidth,
	}
	if n := formInt(r, "chunk_size"); n > 0 {
		cfg.ChunkSize = n
	}
	if n := formInt(r, "overlap_width"); n > 0 {
		cfg.OverlapWidth = n
	}
	asm, err := chunker.NewAssembler(cfg, s.counter)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := fp.Parse(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	tree := structure.Build(doc.Fragments)
	tree.Title = doc.Title
	chunks := asm.Assemble(tree)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"title":  doc.Title,
		"chunks": chunks,
	})
}
