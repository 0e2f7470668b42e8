// Package upload implements the client-side workbook sync: it walks a
// directory of plan workbooks, skips files the server already has, and
// POSTs the rest to the upload endpoint.
package upload

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int
	DaysStored    int
}

// Uploader walks a directory of xlsx plan workbooks and sends the new or
// changed ones to the liftplan server.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run uploads every new or changed workbook under the directory.
func (u *Uploader) Run() (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(u.dir, "*.xlsx"))
	if err != nil {
		return &u.stats, err
	}
	if len(files) == 0 {
		return &u.stats, fmt.Errorf("no .xlsx workbooks under %s", u.dir)
	}

	for _, f := range files {
		// Excel lock files start with ~$.
		if strings.HasPrefix(filepath.Base(f), "~$") {
			continue
		}
		u.stats.FilesTotal++

		relPath, _ := filepath.Rel(u.dir, f)
		info, err := os.Stat(f)
		if err != nil {
			u.log.Warn("stat failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		hash, err := HashFile(f)
		if err != nil {
			u.log.Warn("hash failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
		if err != nil {
			u.log.Warn("state check failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}
		if uploaded {
			u.stats.FilesSkipped++
			continue
		}

		if u.dryRun {
			u.log.Info("dry-run: would upload", "file", relPath, "size", info.Size())
			u.stats.FilesUploaded++
			continue
		}

		result, err := u.client.SendWorkbook(f)
		if err != nil {
			u.log.Warn("upload failed", "file", relPath, "error", err)
			u.stats.FilesErrored++
			continue
		}

		if err := u.state.MarkUploaded(relPath, info.Size(), hash); err != nil {
			u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
		}
		u.stats.FilesUploaded++
		u.stats.DaysStored += result.Days
		u.log.Info("uploaded workbook", "file", relPath, "days", result.Days)
	}

	return &u.stats, nil
}
