package http

import (
	"bytes"
	"context"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/render"
)

// ReportSource builds the current report on demand
type ReportSource func(ctx context.Context) (*model.Report, error)

func reportHandler(source ReportSource, format render.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if source == nil {
			writeError(w, goerr.New("report source is not configured"), http.StatusServiceUnavailable)
			return
		}

		report, err := source(ctx)
		if err != nil {
			ctxlog.From(ctx).Error("Failed to build report", "error", err)
			writeError(w, err, http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		if err := render.Render(&buf, format, report, render.Options{NoColor: true}); err != nil {
			ctxlog.From(ctx).Error("Failed to render report", "error", err, "format", format)
			writeError(w, err, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf.Bytes()); err != nil {
			ctxlog.From(ctx).Warn("Failed to write report response", "error", err)
		}
	}
}
