package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jalad-shrimali/callreport/config"
	"github.com/jalad-shrimali/callreport/report"
	"github.com/jalad-shrimali/callreport/runlog"
	"github.com/jalad-shrimali/callreport/weekday"
)

// Handlers serves the upload form, the processing endpoint and the journal.
type Handlers struct {
	cfg  config.ReportConfig
	days *weekday.Table
	runs *runlog.Store
}

// NewHandlers creates the handler set. runs may be nil.
func NewHandlers(cfg config.ReportConfig, days *weekday.Table, runs *runlog.Store) *Handlers {
	return &Handlers{cfg: cfg, days: days, runs: runs}
}

/* ──────────── GET / ──────────── */

func (h *Handlers) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Modes":   []report.Mode{report.ModeChart, report.ModeTable, report.ModeNative},
		"Default": h.cfg.Mode,
	})
}

/* ──────────── POST /upload ────────────
   multipart: file, script (after_hours | caller_disconnected), mode (optional)
*/

func (h *Handlers) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "Error: upload exceeds %d MB", tooLarge.Limit>>20)
			return
		}
		c.String(http.StatusBadRequest, "Error: no file in request")
		return
	}
	name := filepath.Base(fh.Filename)
	if fh.Filename == "" || name == "." || name == string(filepath.Separator) {
		c.String(http.StatusBadRequest, "Error: no file selected")
		return
	}

	variant, err := report.ParseVariant(c.PostForm("script"))
	if err != nil {
		c.String(http.StatusBadRequest, "Error: %v", err)
		return
	}
	mode := h.cfg.Mode
	if m := c.PostForm("mode"); m != "" {
		if mode, err = report.ParseMode(m); err != nil {
			c.String(http.StatusBadRequest, "Error: %v", err)
			return
		}
	}

	// one directory per request so identical upload names never collide
	dir := filepath.Join(h.cfg.ScratchDir, uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.String(http.StatusInternalServerError, "Error: %v", err)
		return
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(fh, src); err != nil {
		c.String(http.StatusInternalServerError, "Error: %v", err)
		return
	}

	start := time.Now()
	res, err := report.Process(c.Request.Context(), src, report.Options{
		Variant:     variant,
		Mode:        mode,
		SourceSheet: h.cfg.SourceSheet,
		OutDir:      dir,
		Weekdays:    h.days,
	})
	os.Remove(src)
	h.record(c, start, name, variant, mode, res, err)

	if err != nil {
		log.Printf("[UPLOAD] %s (%s/%s) failed: %v", name, variant, mode, err)
		c.String(statusFor(err), "Error: %v", err)
		return
	}
	log.Printf("[UPLOAD] %s (%s/%s): %d rows, %d classified, %d skipped",
		name, variant, mode, res.Extracted, res.Classified, res.Skipped)

	c.FileAttachment(res.Path, filepath.Base(res.Path))
}

func (h *Handlers) record(c *gin.Context, start time.Time, name string, v report.Variant, m report.Mode, res *report.Result, perr error) {
	e := runlog.Entry{
		StartedAt: start,
		Input:     name,
		Variant:   string(v),
		Mode:      string(m),
		Status:    runlog.StatusOK,
		Duration:  time.Since(start),
	}
	if perr != nil {
		e.Status, e.Error = runlog.StatusFailed, perr.Error()
	} else {
		e.Extracted, e.Classified, e.Skipped = res.Extracted, res.Classified, res.Skipped
	}
	if err := h.runs.Record(c.Request.Context(), e); err != nil {
		log.Printf("[RUNLOG] record %s: %v", name, err)
	}
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, report.ErrInvalidVariant), errors.Is(err, report.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(err, report.ErrMissingSheet), errors.Is(err, report.ErrMissingColumn):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

/* ──────────── GET /api/runs ──────────── */

func (h *Handlers) Runs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	entries, err := h.runs.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": entries, "enabled": h.runs != nil})
}
