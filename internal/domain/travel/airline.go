package travel

// Airline is a projection of an airline document.
// Nullable attributes are pointers; a field absent from the document stays nil.
type Airline struct {
	ID       *int64  `json:"id"`
	Type     *string `json:"type"`
	Callsign *string `json:"callsign"`
	Country  *string `json:"country"`
	IATA     *string `json:"iata"`
	ICAO     *string `json:"icao"`
	Name     *string `json:"name"`
	DocKey   string  `json:"docKey"`
}
