package gtfs

type Stop struct {
	ID        string  `csv:"stop_id" bson:"stop_id" gorm:"column:stop_id;primaryKey"`
	Name      string  `csv:"stop_name" bson:"stop_name" gorm:"column:stop_name"`
	Latitude  float64 `csv:"stop_lat" bson:"stop_lat" gorm:"column:stop_lat"`
	Longitude float64 `csv:"stop_lon" bson:"stop_lon" gorm:"column:stop_lon"`
}

func (Stop) TableName() string {
	return "stops"
}

type Trip struct {
	ID       string `csv:"trip_id" bson:"trip_id" gorm:"column:trip_id;primaryKey"`
	RouteID  string `csv:"route_id" bson:"route_id" gorm:"column:route_id"`
	Headsign string `csv:"trip_headsign" bson:"trip_headsign" gorm:"column:trip_headsign"`
}

func (Trip) TableName() string {
	return "trips"
}

type StopTime struct {
	TripID        string `csv:"trip_id" bson:"trip_id" gorm:"column:trip_id;primaryKey"`
	ArrivalTime   string `csv:"arrival_time" bson:"arrival_time" gorm:"column:arrival_time"`
	DepartureTime string `csv:"departure_time" bson:"departure_time" gorm:"column:departure_time;index:idx_stop_times_stop_departure,priority:2"`
	StopID        string `csv:"stop_id" bson:"stop_id" gorm:"column:stop_id;index:idx_stop_times_stop_departure,priority:1"`
	StopSequence  int    `csv:"stop_sequence" bson:"stop_sequence" gorm:"column:stop_sequence;primaryKey;autoIncrement:false"`
	PickupType    int8   `csv:"pickup_type" bson:"pickup_type" gorm:"column:pickup_type"`
	DropOffType   int8   `csv:"drop_off_type" bson:"drop_off_type" gorm:"column:drop_off_type"`
}

func (StopTime) TableName() string {
	return "stop_times"
}

// GTFS pickup_type / drop_off_type value for "no pickup / drop off available"
const StopTimeServiceNotAvailable = 1
