package graphql

import "github.com/kailas-cloud/travelql/internal/domain/travel"

// airlinesToList keeps a nil slice nil so a degraded field serializes as null
// while zero matches serialize as [].
func airlinesToList(airlines []travel.Airline) interface{} {
	if airlines == nil {
		return nil
	}
	out := make([]interface{}, len(airlines))
	for i := range airlines {
		out[i] = airlineToMap(&airlines[i])
	}
	return out
}

func airportsToList(airports []travel.Airport) interface{} {
	if airports == nil {
		return nil
	}
	out := make([]interface{}, len(airports))
	for i := range airports {
		out[i] = airportToMap(&airports[i])
	}
	return out
}

func airlineToMap(a *travel.Airline) map[string]interface{} {
	return map[string]interface{}{
		"id":       deref(a.ID),
		"type":     deref(a.Type),
		"callsign": deref(a.Callsign),
		"country":  deref(a.Country),
		"iata":     deref(a.IATA),
		"icao":     deref(a.ICAO),
		"name":     deref(a.Name),
		"docKey":   a.DocKey,
	}
}

func airportToMap(a *travel.Airport) map[string]interface{} {
	m := map[string]interface{}{
		"id":          deref(a.ID),
		"type":        deref(a.Type),
		"airportname": deref(a.AirportName),
		"city":        deref(a.City),
		"country":     deref(a.Country),
		"faa":         deref(a.FAA),
		"geo":         nil,
		"icao":        deref(a.ICAO),
		"tz":          deref(a.TZ),
		"docKey":      a.DocKey,
	}
	if a.Geo != nil {
		m["geo"] = map[string]interface{}{
			"alt": deref(a.Geo.Alt),
			"lat": deref(a.Geo.Lat),
			"lon": deref(a.Geo.Lon),
		}
	}
	return m
}

// deref returns the pointed-to value, or an untyped nil for a nil pointer.
func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
