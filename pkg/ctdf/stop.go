package ctdf

type Stop struct {
	PrimaryIdentifier string `groups:"basic,detailed"`
	PrimaryName       string `groups:"basic,detailed"`

	Location Location `groups:"basic,detailed"`
}

// NearbyStop is a Stop paired with its walking distance from a query point
type NearbyStop struct {
	Stop     *Stop
	Distance float64
}
