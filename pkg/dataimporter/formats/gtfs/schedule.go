package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type Schedule struct {
	Stops     []Stop
	Trips     []Trip
	StopTimes []StopTime
}

func init() {
	// Allow us to ignore those naughty records that have missing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true
		return r
	})
}

func (g *Schedule) fileMap() map[string]interface{} {
	return map[string]interface{}{
		"stops.txt":      &g.Stops,
		"trips.txt":      &g.Trips,
		"stop_times.txt": &g.StopTimes,
	}
}

// ParseFile reads a zipped GTFS feed
func (g *Schedule) ParseFile(reader io.Reader) error {
	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return err
	}

	fileMap := g.fileMap()
	loaded := map[string]bool{}

	for _, zipFile := range archive.File {
		fileName := filepath.Base(zipFile.Name)
		destination, exists := fileMap[fileName]
		if !exists {
			log.Debug().Str("file", zipFile.Name).Msg("Ignoring gtfs file")
			continue
		}

		log.Info().Str("file", fileName).Msg("Loading file")

		fileReader, err := zipFile.Open()
		if err != nil {
			return err
		}

		err = unmarshalFile(fileReader, destination)
		fileReader.Close()
		if err != nil {
			log.Error().Str("file", fileName).Err(err).Msg("Failed to parse csv file")
			return fmt.Errorf("%s: %w", fileName, err)
		}

		loaded[fileName] = true
	}

	return checkLoaded(fileMap, loaded)
}

// ParseDirectory reads an extracted GTFS feed
func (g *Schedule) ParseDirectory(directory string) error {
	fileMap := g.fileMap()
	loaded := map[string]bool{}

	for fileName, destination := range fileMap {
		file, err := os.Open(filepath.Join(directory, fileName))
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			return err
		}

		log.Info().Str("file", fileName).Msg("Loading file")

		err = unmarshalFile(file, destination)
		file.Close()
		if err != nil {
			log.Error().Str("file", fileName).Err(err).Msg("Failed to parse csv file")
			return fmt.Errorf("%s: %w", fileName, err)
		}

		loaded[fileName] = true
	}

	return checkLoaded(fileMap, loaded)
}

// ParsePath reads either a zip archive or a directory
func ParsePath(path string) (*Schedule, error) {
	schedule := &Schedule{}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		err = schedule.ParseDirectory(path)
	} else {
		var file *os.File
		file, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		err = schedule.ParseFile(file)
	}

	if err != nil {
		return nil, err
	}

	log.Info().
		Int("stops", len(schedule.Stops)).
		Int("trips", len(schedule.Trips)).
		Int("stop_times", len(schedule.StopTimes)).
		Str("path", path).
		Msg("Parsed GTFS schedule")

	return schedule, nil
}

func unmarshalFile(reader io.Reader, destination interface{}) error {
	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	// Feeds exported from spreadsheets often carry a UTF-8 BOM on the header row
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))

	return gocsv.UnmarshalBytes(body, destination)
}

func checkLoaded(fileMap map[string]interface{}, loaded map[string]bool) error {
	var missing []string
	for fileName := range fileMap {
		if !loaded[fileName] {
			missing = append(missing, fileName)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("gtfs feed is missing %s", strings.Join(missing, ", "))
	}

	return nil
}
