package usecase

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/render"
)

// Artifact is one rendered report. Err is set when rendering failed.
type Artifact struct {
	Format render.Format
	Name   string
	Data   []byte
	Err    error
}

type publishUseCase struct {
	store    interfaces.ArtifactStore
	notifier interfaces.Notifier
	recorder interfaces.Recorder
}

// NewPublish creates a new instance of the publish use case. store and
// notifier are optional.
func NewPublish(store interfaces.ArtifactStore, notifier interfaces.Notifier, recorder interfaces.Recorder) *publishUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &publishUseCase{store: store, notifier: notifier, recorder: recorder}
}

// ArtifactName returns the file name of format for report.
func ArtifactName(report *model.Report, format render.Format) string {
	return fmt.Sprintf("dependency-report-%s.%s", report.GeneratedAt.UTC().Format("20060102"), format.Ext())
}

// Render renders every format concurrently. A failed format does not stop
// the others; the failure is kept in Artifact.Err.
func (uc *publishUseCase) Render(ctx context.Context, report *model.Report, formats []render.Format, opts render.Options) []Artifact {
	artifacts := make([]Artifact, len(formats))

	var eg errgroup.Group
	for i, format := range formats {
		eg.Go(func() error {
			var buf bytes.Buffer
			err := render.Render(&buf, format, report, opts)
			uc.recorder.ObserveRender(string(format), err)

			a := Artifact{Format: format, Name: ArtifactName(report, format)}
			if err != nil {
				ctxlog.From(ctx).Error("Failed to render report", "format", format, "error", err)
				a.Err = err
			} else {
				a.Data = buf.Bytes()
			}
			artifacts[i] = a
			return nil
		})
	}
	_ = eg.Wait()

	return artifacts
}

// Publish uploads rendered artifacts and sends the notification. It returns
// the stored locations.
func (uc *publishUseCase) Publish(ctx context.Context, report *model.Report, artifacts []Artifact) ([]string, error) {
	logger := ctxlog.From(ctx)

	var locations []string
	if uc.store != nil {
		var mu sync.Mutex
		eg, ctx := errgroup.WithContext(ctx)
		for _, a := range artifacts {
			if a.Err != nil || a.Format == render.FormatSummary {
				continue
			}
			eg.Go(func() error {
				loc, err := uc.store.Put(ctx, a.Name, a.Format.ContentType(), a.Data)
				if err != nil {
					return goerr.Wrap(err, "failed to upload artifact", goerr.V("name", a.Name))
				}
				mu.Lock()
				locations = append(locations, loc)
				mu.Unlock()
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		sort.Strings(locations)
		logger.Info("Artifacts uploaded", "count", len(locations))
	}

	if uc.notifier != nil {
		if err := uc.notifier.Notify(ctx, report, locations); err != nil {
			return locations, goerr.Wrap(err, "failed to send report notification")
		}
		logger.Info("Report notification sent")
	}

	return locations, nil
}
