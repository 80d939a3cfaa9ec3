package travel

// Airport is a projection of an airport document.
type Airport struct {
	ID          *int64  `json:"id"`
	Type        *string `json:"type"`
	AirportName *string `json:"airportname"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
	FAA         *string `json:"faa"`
	Geo         *Geo    `json:"geo"`
	ICAO        *string `json:"icao"`
	TZ          *string `json:"tz"`
	DocKey      string  `json:"docKey"`
}

// Geo is the position embedded in an airport document.
type Geo struct {
	Alt *int64   `json:"alt"`
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}
