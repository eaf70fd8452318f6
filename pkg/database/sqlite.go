package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/dataimporter/formats/gtfs"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS stops (
    stop_id TEXT PRIMARY KEY,
    stop_name TEXT NOT NULL,
    stop_lat REAL NOT NULL,
    stop_lon REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trips (
    trip_id TEXT PRIMARY KEY,
    route_id TEXT NOT NULL,
    trip_headsign TEXT
);

CREATE TABLE IF NOT EXISTS stop_times (
    trip_id TEXT NOT NULL,
    arrival_time TEXT NOT NULL,
    departure_time TEXT NOT NULL,
    stop_id TEXT NOT NULL,
    stop_sequence INTEGER NOT NULL,
    pickup_type INTEGER NOT NULL DEFAULT 0,
    drop_off_type INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (trip_id) REFERENCES trips(trip_id),
    FOREIGN KEY (stop_id) REFERENCES stops(stop_id)
);

CREATE INDEX IF NOT EXISTS idx_stop_times_trip ON stop_times(trip_id);
CREATE INDEX IF NOT EXISTS idx_stop_times_stop ON stop_times(stop_id);
`

type SQLiteStore struct {
	DB   *sql.DB
	Path string
}

// OpenSQLite opens an existing timetable database, the file must already exist
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	return openSQLite(ctx, path)
}

// CreateSQLite opens path, creating the database and its schema when missing
func CreateSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	store, err := openSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	if _, err := store.DB.ExecContext(ctx, sqliteSchema); err != nil {
		store.Close()
		return nil, err
	}

	return store, nil
}

func openSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{DB: db, Path: path}, nil
}

func (s *SQLiteStore) Close() error {
	return s.DB.Close()
}

// LoadSchedule reads all three tables in one transaction so a concurrent import is seen whole or not at all
func (s *SQLiteStore) LoadSchedule(ctx context.Context) (*gtfs.Schedule, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	return loadScheduleTx(ctx, tx)
}

func loadScheduleTx(ctx context.Context, tx *sql.Tx) (*gtfs.Schedule, error) {
	schedule := &gtfs.Schedule{}

	stopRows, err := tx.QueryContext(ctx, `SELECT stop_id, stop_name, stop_lat, stop_lon FROM stops`)
	if err != nil {
		return nil, err
	}
	defer stopRows.Close()

	for stopRows.Next() {
		var stop gtfs.Stop
		if err := stopRows.Scan(&stop.ID, &stop.Name, &stop.Latitude, &stop.Longitude); err != nil {
			return nil, fmt.Errorf("stops: %w", err)
		}
		schedule.Stops = append(schedule.Stops, stop)
	}
	if err := stopRows.Err(); err != nil {
		return nil, err
	}

	tripRows, err := tx.QueryContext(ctx, `SELECT trip_id, route_id, trip_headsign FROM trips`)
	if err != nil {
		return nil, err
	}
	defer tripRows.Close()

	for tripRows.Next() {
		var trip gtfs.Trip
		var headsign sql.NullString
		if err := tripRows.Scan(&trip.ID, &trip.RouteID, &headsign); err != nil {
			return nil, fmt.Errorf("trips: %w", err)
		}
		trip.Headsign = headsign.String
		schedule.Trips = append(schedule.Trips, trip)
	}
	if err := tripRows.Err(); err != nil {
		return nil, err
	}

	// Databases built by other tools only carry the basic stop_times columns
	hasServiceColumns, err := hasColumn(ctx, tx, "stop_times", "pickup_type")
	if err != nil {
		return nil, err
	}

	stopTimeQuery := `SELECT trip_id, arrival_time, departure_time, stop_id, stop_sequence, 0, 0 FROM stop_times`
	if hasServiceColumns {
		stopTimeQuery = `SELECT trip_id, arrival_time, departure_time, stop_id, stop_sequence, pickup_type, drop_off_type FROM stop_times`
	}

	stopTimeRows, err := tx.QueryContext(ctx, stopTimeQuery)
	if err != nil {
		return nil, err
	}
	defer stopTimeRows.Close()

	for stopTimeRows.Next() {
		var stopTime gtfs.StopTime
		if err := stopTimeRows.Scan(
			&stopTime.TripID,
			&stopTime.ArrivalTime,
			&stopTime.DepartureTime,
			&stopTime.StopID,
			&stopTime.StopSequence,
			&stopTime.PickupType,
			&stopTime.DropOffType,
		); err != nil {
			return nil, fmt.Errorf("stop_times: %w", err)
		}
		schedule.StopTimes = append(schedule.StopTimes, stopTime)
	}
	if err := stopTimeRows.Err(); err != nil {
		return nil, err
	}

	return schedule, nil
}

func hasColumn(ctx context.Context, tx *sql.Tx, table string, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`SELECT name FROM pragma_table_info('%s')`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}

	return false, rows.Err()
}

// SaveSchedule replaces the contents of the database with schedule in a single transaction
func (s *SQLiteStore) SaveSchedule(ctx context.Context, schedule *gtfs.Schedule) error {
	if _, err := s.DB.ExecContext(ctx, sqliteSchema); err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := saveScheduleTx(ctx, tx, schedule); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return errors.Join(err, rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info().
		Str("path", s.Path).
		Int("stops", len(schedule.Stops)).
		Int("trips", len(schedule.Trips)).
		Int("stop_times", len(schedule.StopTimes)).
		Msg("Saved schedule to sqlite")

	return nil
}

func saveScheduleTx(ctx context.Context, tx *sql.Tx, schedule *gtfs.Schedule) error {
	for _, table := range []string{"stop_times", "trips", "stops"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	insertStop, err := tx.PrepareContext(ctx, `INSERT INTO stops(stop_id, stop_name, stop_lat, stop_lon) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer insertStop.Close()

	for _, stop := range schedule.Stops {
		if _, err := insertStop.ExecContext(ctx, stop.ID, stop.Name, stop.Latitude, stop.Longitude); err != nil {
			return fmt.Errorf("stop %s: %w", stop.ID, err)
		}
	}

	insertTrip, err := tx.PrepareContext(ctx, `INSERT INTO trips(trip_id, route_id, trip_headsign) VALUES (?,?,?)`)
	if err != nil {
		return err
	}
	defer insertTrip.Close()

	for _, trip := range schedule.Trips {
		if _, err := insertTrip.ExecContext(ctx, trip.ID, trip.RouteID, trip.Headsign); err != nil {
			return fmt.Errorf("trip %s: %w", trip.ID, err)
		}
	}

	insertStopTime, err := tx.PrepareContext(ctx, `INSERT INTO stop_times(trip_id, arrival_time, departure_time, stop_id, stop_sequence, pickup_type, drop_off_type) VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer insertStopTime.Close()

	for _, stopTime := range schedule.StopTimes {
		if _, err := insertStopTime.ExecContext(ctx,
			stopTime.TripID,
			stopTime.ArrivalTime,
			stopTime.DepartureTime,
			stopTime.StopID,
			stopTime.StopSequence,
			stopTime.PickupType,
			stopTime.DropOffType,
		); err != nil {
			return fmt.Errorf("stop_time %s/%d: %w", stopTime.TripID, stopTime.StopSequence, err)
		}
	}

	return nil
}
