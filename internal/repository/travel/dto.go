package travel

import (
	"github.com/kailas-cloud/travelql/internal/db"
	domtravel "github.com/kailas-cloud/travelql/internal/domain/travel"
)

// DocKeyField is the record field that carries the document key.
const DocKeyField = "docKey"

// AirlineFields is the full declared field set of Airline, docKey excluded.
var AirlineFields = []db.Field{
	{Name: "id", Kind: db.FieldInt},
	{Name: "type", Kind: db.FieldString},
	{Name: "callsign", Kind: db.FieldString},
	{Name: "country", Kind: db.FieldString},
	{Name: "iata", Kind: db.FieldString},
	{Name: "icao", Kind: db.FieldString},
	{Name: "name", Kind: db.FieldString},
}

// AirportFields is the full declared field set of Airport, docKey excluded.
var AirportFields = []db.Field{
	{Name: "id", Kind: db.FieldInt},
	{Name: "type", Kind: db.FieldString},
	{Name: "airportname", Kind: db.FieldString},
	{Name: "city", Kind: db.FieldString},
	{Name: "country", Kind: db.FieldString},
	{Name: "faa", Kind: db.FieldString},
	{Name: "geo", Kind: db.FieldObject},
	{Name: "icao", Kind: db.FieldString},
	{Name: "tz", Kind: db.FieldString},
}

func airlineFromRecord(rec db.Record) domtravel.Airline {
	return domtravel.Airline{
		ID:       rec.Int("id"),
		Type:     rec.String("type"),
		Callsign: rec.String("callsign"),
		Country:  rec.String("country"),
		IATA:     rec.String("iata"),
		ICAO:     rec.String("icao"),
		Name:     rec.String("name"),
		DocKey:   docKeyOf(rec),
	}
}

func airportFromRecord(rec db.Record) domtravel.Airport {
	return domtravel.Airport{
		ID:          rec.Int("id"),
		Type:        rec.String("type"),
		AirportName: rec.String("airportname"),
		City:        rec.String("city"),
		Country:     rec.String("country"),
		FAA:         rec.String("faa"),
		Geo:         geoFromRecord(rec.Object("geo")),
		ICAO:        rec.String("icao"),
		TZ:          rec.String("tz"),
		DocKey:      docKeyOf(rec),
	}
}

func geoFromRecord(rec db.Record) *domtravel.Geo {
	if rec == nil {
		return nil
	}
	return &domtravel.Geo{
		Alt: rec.Int("alt"),
		Lat: rec.Float("lat"),
		Lon: rec.Float("lon"),
	}
}

func docKeyOf(rec db.Record) string {
	if k, ok := rec[DocKeyField].(string); ok {
		return k
	}
	return ""
}
