package query

type Trip struct {
	PrimaryIdentifier string
}
