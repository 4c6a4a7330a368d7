package query

// Domain is a logical record family served by the document store.
type Domain string

// Domain constants.
const (
	// Flights holds one record per itinerary: airports, fare, duration.
	Flights Domain = "flights"
	// Segments holds airline names keyed by the parent flight's originalId.
	Segments Domain = "segments"
)

// IsValid checks if the domain is one of the supported values.
func (d Domain) IsValid() bool {
	return d == Flights || d == Segments
}

// Operation is a supported query shape.
type Operation string

// Operation constants.
const (
	All       Operation = "all"
	ByRoute   Operation = "by_route"
	ByAirline Operation = "by_airline"
	// ByFilter carries an exact-match key/value map.
	ByFilter Operation = "by_filter"
)

// IsValid checks if the operation is one of the supported values.
func (o Operation) IsValid() bool {
	return o == All || o == ByRoute || o == ByAirline || o == ByFilter
}

// Direction is the sort order.
type Direction string

// Sort direction constants.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// IsValid checks if the direction is one of the supported values.
func (d Direction) IsValid() bool {
	return d == Asc || d == Desc
}

// Sort is an optional single-field ordering.
type Sort struct {
	Field     string
	Direction Direction
}

// MatchMode reports how the executor matched records.
type MatchMode string

// Match mode constants.
const (
	MatchExact MatchMode = "exact"
	// MatchRelaxed is the case-insensitive partial retry after an empty exact route match.
	MatchRelaxed   MatchMode = "relaxed"
	MatchSubstring MatchMode = "substring"
)

// Field names of the flight data set.
const (
	FieldOriginalID         = "originalId"
	FieldStartingAirport    = "startingAirport"
	FieldDestinationAirport = "destinationAirport"
	FieldTotalFare          = "totalFare"
	FieldTotalTripDuration  = "totalTripDuration"
	FieldAirlineName        = "segmentsAirlineName"
)

// AirlineDelimiter separates carriers in a multi-leg segmentsAirlineName value.
const AirlineDelimiter = "||"
