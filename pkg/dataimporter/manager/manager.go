package manager

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/database"
	"github.com/travigo/journeyplanner/pkg/dataimporter/formats/gtfs"
	"github.com/travigo/journeyplanner/pkg/timetable"
)

// LoadFeed reads a GTFS feed from a local path or an http(s) URL and checks it builds a valid timetable
func LoadFeed(ctx context.Context, source string) (*gtfs.Schedule, *timetable.Snapshot, error) {
	path := source
	if isValidUrl(source) {
		tempFile, err := tempDownloadFile(ctx, source)
		if err != nil {
			return nil, nil, err
		}
		defer os.Remove(tempFile)

		path = tempFile
	}

	schedule, err := gtfs.ParsePath(path)
	if err != nil {
		return nil, nil, err
	}

	snapshot, err := timetable.FromSchedule(schedule)
	if err != nil {
		return nil, nil, err
	}

	return schedule, snapshot, nil
}

// ImportFeed loads the feed at source and replaces the contents of store with it
func ImportFeed(ctx context.Context, source string, store database.Store) error {
	startTime := time.Now()

	schedule, snapshot, err := LoadFeed(ctx, source)
	if err != nil {
		return err
	}

	if err := store.SaveSchedule(ctx, schedule); err != nil {
		return err
	}

	log.Info().
		Str("source", source).
		Str("version", snapshot.Version).
		Int("stops", snapshot.StopCount()).
		Int("trips", snapshot.TripCount()).
		Int("stop_times", snapshot.CallCount()).
		Str("Length", time.Since(startTime).String()).
		Msg("Imported GTFS feed")

	return nil
}

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return u.Scheme == "http" || u.Scheme == "https"
}

// tempDownloadFile fetches source into a temporary file keeping its extension, so zips are detected
func tempDownloadFile(ctx context.Context, source string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "curl/7.54.1")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: unexpected status %s", source, resp.Status)
	}

	fileExtension := filepath.Ext(source)
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		fileExtension = filepath.Ext(params["filename"])
	}
	if fileExtension == "" {
		fileExtension = ".zip"
	}

	tmpFile, err := os.CreateTemp(os.TempDir(), "journeyplanner-data-importer-*"+fileExtension)
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}

	return tmpFile.Name(), nil
}
