package timetable

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataimporter/formats/gtfs"
)

// Holder publishes snapshots atomically. Readers only ever see a fully built snapshot.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

func NewHolder(snapshot *Snapshot) *Holder {
	holder := &Holder{}
	if snapshot != nil {
		holder.Publish(snapshot)
	}
	return holder
}

func (h *Holder) Publish(snapshot *Snapshot) {
	h.current.Store(snapshot)
}

func (h *Holder) Load() (*Snapshot, error) {
	snapshot := h.current.Load()
	if snapshot == nil {
		return nil, &ctdf.CollaboratorError{
			Collaborator: "timetable",
			Err:          errors.New("no timetable has been loaded"),
		}
	}

	return snapshot, nil
}

type ScheduleLoader interface {
	LoadSchedule(ctx context.Context) (*gtfs.Schedule, error)
}

// Load reads a schedule from loader and builds a snapshot from it
func Load(ctx context.Context, loader ScheduleLoader) (*Snapshot, error) {
	startTime := time.Now()

	schedule, err := loader.LoadSchedule(ctx)
	if err != nil {
		var collaboratorError *ctdf.CollaboratorError
		if errors.As(err, &collaboratorError) {
			return nil, err
		}
		return nil, &ctdf.CollaboratorError{Collaborator: "timetable store", Err: err}
	}

	snapshot, err := FromSchedule(schedule)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("version", snapshot.Version).
		Int("stops", snapshot.StopCount()).
		Int("trips", snapshot.TripCount()).
		Int("stop_times", snapshot.CallCount()).
		Str("Length", time.Since(startTime).String()).
		Msg("Loaded timetable snapshot")

	return snapshot, nil
}

// Reload builds a new snapshot and swaps it in, keeping the old one on failure
func (h *Holder) Reload(ctx context.Context, loader ScheduleLoader) error {
	snapshot, err := Load(ctx, loader)
	if err != nil {
		return err
	}

	h.Publish(snapshot)
	return nil
}
