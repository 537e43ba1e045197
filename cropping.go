package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Sajmani/smartfarm/config"
	"github.com/Sajmani/smartfarm/export"
	"github.com/Sajmani/smartfarm/smartfarm"
)

// previewRows is how many aggregated records are printed before export.
const previewRows = 5

type outcomeStatus string

const (
	statusOK     outcomeStatus = "ok"     // at least one valid record
	statusEmpty  outcomeStatus = "empty"  // fetched, but no valid records
	statusFailed outcomeStatus = "failed" // request or decode failed
)

// outcome is what happened to one farm's cropping season request.
type outcome struct {
	UserID  string
	Status  outcomeStatus
	Fetched int // records returned by the service
	Kept    int // records with statusCode "00"
	Err     error
}

// report is the result of one cropping season run.
type report struct {
	RunID    uuid.UUID
	Outcomes []outcome
	Records  []smartfarm.Record
}

func (r *report) count(s outcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// fetchCropping requests the cropping seasons of each farm in order,
// keeps the valid ones and aggregates them. A failed farm contributes
// nothing and does not stop the run.
func fetchCropping(api apiClient, userIDs []string, log *zap.Logger) *report {
	r := &report{RunID: uuid.New()}
	log = log.With(zap.Stringer("run", r.RunID))
	for _, id := range userIDs {
		log.Info("Fetching cropping seasons", zap.String("userId", id))
		raw, err := api.CroppingSeasons(id)
		if err != nil {
			logFetchError(log, id, err)
			r.Outcomes = append(r.Outcomes, outcome{UserID: id, Status: statusFailed, Err: err})
			continue
		}
		kept := smartfarm.FilterValid(raw, id)
		o := outcome{UserID: id, Status: statusOK, Fetched: len(raw), Kept: len(kept)}
		if len(kept) == 0 {
			o.Status = statusEmpty
			log.Debug("No valid cropping seasons", zap.String("userId", id), zap.Int("fetched", len(raw)))
		} else {
			log.Info("Found cropping seasons", zap.String("userId", id), zap.Int("count", len(kept)))
		}
		r.Outcomes = append(r.Outcomes, o)
		r.Records = append(r.Records, kept...)
	}
	return r
}

func logFetchError(log *zap.Logger, userID string, err error) {
	var (
		se *smartfarm.StatusError
		de *smartfarm.DecodeError
	)
	switch {
	case errors.As(err, &se):
		log.Warn("Cropping season request failed", zap.String("userId", userID), zap.Int("status", se.StatusCode))
	case errors.As(err, &de):
		log.Warn("Failed decoding cropping seasons", zap.String("userId", userID),
			zap.Error(err), zap.ByteString("body", de.Body))
	default:
		log.Warn("Cropping season request failed", zap.String("userId", userID), zap.Error(err))
	}
}

// exportCropping writes the aggregated records. With no records it
// writes nothing. The CSV (and XLSX) view holds the preferred columns
// that exist in the data; the JSON file holds every field.
func exportCropping(cfg config.Config, r *report, w io.Writer, log *zap.Logger) error {
	if len(r.Records) == 0 {
		fmt.Fprintln(w, "\nNo cropping data found.")
		return nil
	}

	fmt.Fprintln(w, "\n=== Preview ===")
	for _, rec := range r.Records[:min(previewRows, len(r.Records))] {
		pretty.Fprintf(w, "%# v\n", rec.Map())
	}
	available := smartfarm.Columns(r.Records)
	fmt.Fprintln(w, "\n=== Available columns ===")
	fmt.Fprintln(w, available)

	cols, missing := export.SelectColumns(available, smartfarm.CroppingColumns)
	if len(missing) > 0 {
		log.Warn("Some columns are missing from the data; saving the available ones",
			zap.Strings("missing", missing), zap.Strings("columns", cols))
	}

	if err := export.WriteCSV(cfg.CroppingCSV, r.Records, cols); err != nil {
		return errors.Wrap(err, "saving cropping seasons as CSV")
	}
	log.Info("Saved cropping seasons", zap.String("path", cfg.CroppingCSV))

	if err := export.WriteJSON(cfg.CroppingJSON, r.Records); err != nil {
		return errors.Wrap(err, "saving cropping seasons as JSON")
	}
	log.Info("Saved cropping seasons", zap.String("path", cfg.CroppingJSON))

	if cfg.CroppingXLSX != "" {
		if err := export.WriteXLSX(cfg.CroppingXLSX, "cropping", r.Records, cols); err != nil {
			return errors.Wrap(err, "saving cropping seasons as XLSX")
		}
		log.Info("Saved cropping seasons", zap.String("path", cfg.CroppingXLSX))
	}
	return nil
}

// syncCropping runs the cropping season pipeline for the farms saved in
// cfg.FarmsFile. Only an unusable farm list or a failed export is an error.
func syncCropping(cfg config.Config, api apiClient, w io.Writer, log *zap.Logger) (*report, error) {
	userIDs, err := smartfarm.LoadUserIDs(cfg.FarmsFile)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded farms", zap.String("path", cfg.FarmsFile), zap.Int("farms", len(userIDs)))

	r := fetchCropping(api, userIDs, log)
	if err := exportCropping(cfg, r, w, log); err != nil {
		return r, err
	}
	log.Info("Finished cropping season run",
		zap.Stringer("run", r.RunID),
		zap.Int("farms", len(r.Outcomes)),
		zap.Int("ok", r.count(statusOK)),
		zap.Int("empty", r.count(statusEmpty)),
		zap.Int("failed", r.count(statusFailed)),
		zap.Int("records", len(r.Records)))
	return r, nil
}
