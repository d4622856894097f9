package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/listtree/internal/config"
	"github.com/dgallion1/listtree/internal/doctree"
	"github.com/dgallion1/listtree/internal/outline"
	"github.com/dgallion1/listtree/internal/parser"
	"github.com/dgallion1/listtree/internal/pipeline"
	"github.com/dgallion1/listtree/internal/render"
)

const defaultFilename = "input.txt"

var errTooLarge = errors.New("upload too large")

// parseRequest holds the query parameters shared by the parse endpoints.
type parseRequest struct {
	opts     outline.Options
	format   render.Format
	filename string
	title    string
}

func (s *Server) parseQuery(r *http.Request) (parseRequest, error) {
	q := r.URL.Query()
	req := parseRequest{
		opts:     s.cfg.Outline(),
		format:   render.FormatJSON,
		filename: q.Get("filename"),
		title:    q.Get("title"),
	}

	if v := q.Get("indent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid indent %q", v)
		}
		req.opts.IndentWidth = n
	}
	if v := q.Get("marker"); v != "" {
		req.opts.Marker = v
	}
	if err := config.ValidateOutline(req.opts); err != nil {
		return req, err
	}

	if v := q.Get("format"); v != "" {
		f, err := render.ParseFormat(v)
		if err != nil {
			return req, err
		}
		req.format = f
	}
	return req, nil
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseQuery(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	var data []byte
	if isMultipart(r) {
		data, err = s.readFormFile(r, &req)
	} else {
		data, err = s.readLimited(r.Body)
	}
	if err != nil {
		s.writeReadError(w, err)
		return
	}

	if req.filename == "" {
		req.filename = defaultFilename
	}
	req.filename = sanitizeFilename(req.filename)

	p, err := parser.ForFile(req.filename, req.opts)
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(req.filename)), http.StatusBadRequest)
		return
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	start := time.Now()
	tree, err := p.Parse(bytes.NewReader(data), req.filename)
	took := time.Since(start)
	if err != nil {
		s.log.Warn("parse failed", "filename", req.filename, "error", err)
		jsonError(w, "parse failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.orchestrator.Stats().Record(took, doctree.Count(tree.Roots))

	if req.title != "" {
		tree.Title = req.title
	}
	s.writeTree(w, tree, req)
}

func (s *Server) handleBatchParse(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseQuery(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	results := make([]map[string]any, 0, len(files))
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "failed to open file",
			})
			continue
		}

		data, err := s.readLimited(f)
		f.Close()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "file too large or read error",
			})
			continue
		}

		job := pipeline.NewJob(filename, data, req.opts)
		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"job_id":   job.ID,
				"error":    err.Error(),
			})
			continue
		}

		results = append(results, map[string]any{
			"filename":   filename,
			"job_id":     job.ID,
			"status":     pipeline.StatusQueued,
			"poll_url":   fmt.Sprintf("/api/jobs/%s", job.ID),
			"result_url": fmt.Sprintf("/api/jobs/%s/result", job.ID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"jobs": results})
}

// readFormFile reads the "file" part and takes its name unless the query
// already named one.
func (s *Server) readFormFile(r *http.Request, req *parseRequest) ([]byte, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file is required: %w", err)
	}
	defer file.Close()

	if req.filename == "" {
		req.filename = header.Filename
	}
	return s.readLimited(file)
}

func (s *Server) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxUploadBytes+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errTooLarge
		}
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, errTooLarge
	}
	return data, nil
}

func (s *Server) writeReadError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.Is(err, errTooLarge) || errors.As(err, &maxErr) {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}
	jsonError(w, err.Error(), http.StatusBadRequest)
}

// writeTree renders tree in the requested format.
func (s *Server) writeTree(w http.ResponseWriter, tree *doctree.DocTree, req parseRequest) {
	var buf bytes.Buffer
	opts := render.Options{Outline: req.opts, ShowTitle: true}
	if err := render.Render(&buf, tree, req.format, opts); err != nil {
		s.log.Error("render failed", "format", req.format, "error", err)
		jsonError(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", req.format.ContentType())
	w.Write(buf.Bytes())
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
