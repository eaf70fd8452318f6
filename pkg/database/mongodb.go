package database

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/dataimporter/formats/gtfs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/exp/slices"
)

const defaultMongoConnectionString = "mongodb://localhost:27017/"
const defaultMongoDatabase = "travigo"

const mongoBatchSize = 1000

// Schedules are written to collections suffixed with an import generation. The document in
// scheduleCollection names the generation readers load, so a schedule is swapped in by a single update.
const scheduleCollection = "schedule"
const currentScheduleID = "current"

var scheduleCollections = []string{"stops", "trips", "stop_times"}

type scheduleGeneration struct {
	ID         string    `bson:"_id"`
	Generation string    `bson:"generation"`
	Previous   string    `bson:"previous,omitempty"`
	ImportedAt time.Time `bson:"imported_at"`
}

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func ConnectMongoDB(ctx context.Context, connectionString string, dbName string) (*MongoInstance, error) {
	if connectionString == "" {
		connectionString = defaultMongoConnectionString
	}
	if dbName == "" {
		dbName = defaultMongoDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return nil, err
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	instance := &MongoInstance{
		Client:   client,
		Database: client.Database(dbName),
	}

	return instance, nil
}

func (m *MongoInstance) GetCollection(collectionName string) *mongo.Collection {
	return m.Database.Collection(collectionName)
}

func (m *MongoInstance) Close() error {
	return m.Client.Disconnect(context.Background())
}

func generationCollection(name string, generation string) string {
	if generation == "" {
		return name
	}

	return name + "_" + generation
}

// staleGenerations lists the schedule collections in collectionNames belonging to generations other than keep
func staleGenerations(collectionNames []string, keep ...string) []string {
	var stale []string

	for _, collectionName := range collectionNames {
		for _, name := range scheduleCollections {
			generation, found := strings.CutPrefix(collectionName, name+"_")
			if !found || generation == "" {
				continue
			}
			if _, err := strconv.ParseUint(generation, 10, 64); err != nil {
				continue
			}

			if !slices.Contains(keep, generation) {
				stale = append(stale, collectionName)
			}
		}
	}

	return stale
}

func (m *MongoInstance) createIndexes(ctx context.Context, generation string) error {
	indexes := map[string][]mongo.IndexModel{
		"stops": {
			{
				Keys: bson.D{{Key: "stop_id", Value: 1}},
			},
		},
		"trips": {
			{
				Keys: bson.D{{Key: "trip_id", Value: 1}},
			},
		},
		"stop_times": {
			{
				Keys: bson.D{
					{Key: "trip_id", Value: 1},
					{Key: "stop_sequence", Value: 1},
				},
			},
			{
				Keys: bson.D{
					{Key: "stop_id", Value: 1},
					{Key: "departure_time", Value: 1},
				},
			},
		},
	}

	for collectionName, models := range indexes {
		_, err := m.GetCollection(generationCollection(collectionName, generation)).Indexes().CreateMany(ctx, models, options.CreateIndexes())
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *MongoInstance) currentGeneration(ctx context.Context) (*scheduleGeneration, error) {
	current := &scheduleGeneration{}

	err := m.GetCollection(scheduleCollection).FindOne(ctx, bson.M{"_id": currentScheduleID}).Decode(current)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Written before generations were introduced
		return &scheduleGeneration{ID: currentScheduleID}, nil
	}
	if err != nil {
		return nil, err
	}

	return current, nil
}

func (m *MongoInstance) LoadSchedule(ctx context.Context) (*gtfs.Schedule, error) {
	current, err := m.currentGeneration(ctx)
	if err != nil {
		return nil, err
	}

	schedule := &gtfs.Schedule{}

	if err := m.findAll(ctx, generationCollection("stops", current.Generation), &schedule.Stops); err != nil {
		return nil, err
	}
	if err := m.findAll(ctx, generationCollection("trips", current.Generation), &schedule.Trips); err != nil {
		return nil, err
	}
	if err := m.findAll(ctx, generationCollection("stop_times", current.Generation), &schedule.StopTimes); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (m *MongoInstance) findAll(ctx context.Context, collectionName string, results interface{}) error {
	cursor, err := m.GetCollection(collectionName).Find(ctx, bson.M{})
	if err != nil {
		return err
	}

	return cursor.All(ctx, results)
}

// SaveSchedule writes schedule to a new generation of collections then points readers at it.
// The previous generation is kept for loads already in progress, older ones are dropped.
func (m *MongoInstance) SaveSchedule(ctx context.Context, schedule *gtfs.Schedule) error {
	previous, err := m.currentGeneration(ctx)
	if err != nil {
		return err
	}

	generation := strconv.FormatInt(time.Now().UnixNano(), 10)

	stops := make([]interface{}, 0, len(schedule.Stops))
	for _, stop := range schedule.Stops {
		stops = append(stops, stop)
	}
	trips := make([]interface{}, 0, len(schedule.Trips))
	for _, trip := range schedule.Trips {
		trips = append(trips, trip)
	}
	stopTimes := make([]interface{}, 0, len(schedule.StopTimes))
	for _, stopTime := range schedule.StopTimes {
		stopTimes = append(stopTimes, stopTime)
	}

	for _, collection := range []struct {
		name      string
		documents []interface{}
	}{
		{"stops", stops},
		{"trips", trips},
		{"stop_times", stopTimes},
	} {
		if err := m.insertBatches(ctx, generationCollection(collection.name, generation), collection.documents); err != nil {
			m.dropCollections(ctx, staleGenerations(m.collectionNames(ctx), previous.Generation, previous.Previous))
			return err
		}
	}

	if err := m.createIndexes(ctx, generation); err != nil {
		return err
	}

	_, err = m.GetCollection(scheduleCollection).ReplaceOne(ctx, bson.M{"_id": currentScheduleID}, scheduleGeneration{
		ID:         currentScheduleID,
		Generation: generation,
		Previous:   previous.Generation,
		ImportedAt: time.Now(),
	}, options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}

	m.dropCollections(ctx, staleGenerations(m.collectionNames(ctx), generation, previous.Generation))

	log.Info().
		Str("generation", generation).
		Int("stops", len(schedule.Stops)).
		Int("trips", len(schedule.Trips)).
		Int("stop_times", len(schedule.StopTimes)).
		Msg("Saved schedule to mongodb")

	return nil
}

func (m *MongoInstance) insertBatches(ctx context.Context, collectionName string, documents []interface{}) error {
	collection := m.GetCollection(collectionName)

	for start := 0; start < len(documents); start += mongoBatchSize {
		end := start + mongoBatchSize
		if end > len(documents) {
			end = len(documents)
		}

		var operations []mongo.WriteModel
		for _, document := range documents[start:end] {
			operations = append(operations, mongo.NewInsertOneModel().SetDocument(document))
		}

		if _, err := collection.BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(false)); err != nil {
			return err
		}
	}

	return nil
}

func (m *MongoInstance) collectionNames(ctx context.Context) []string {
	collectionNames, err := m.Database.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		log.Error().Err(err).Msg("Listing collections")
		return nil
	}

	return collectionNames
}

func (m *MongoInstance) dropCollections(ctx context.Context, collectionNames []string) {
	for _, collectionName := range collectionNames {
		if err := m.GetCollection(collectionName).Drop(ctx); err != nil {
			log.Error().Err(err).Str("collection", collectionName).Msg("Dropping old schedule collection")
		}
	}
}
