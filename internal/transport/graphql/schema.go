// Package graphql binds the query fields to a graphql-go schema.
package graphql

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/kailas-cloud/travelql/internal/domain/travel"
	"github.com/kailas-cloud/travelql/internal/usecase/resolver"
)

// Resolver serves the query root fields.
type Resolver interface {
	AirlinesByCountry(ctx context.Context, country string) ([]travel.Airline, error)
	AirportsByCountry(ctx context.Context, country string) ([]travel.Airport, error)
	AirlineByKey(ctx context.Context, id int64) (*travel.Airline, error)
}

var geoType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Geo",
	Fields: graphql.Fields{
		"alt": &graphql.Field{Type: graphql.Int},
		"lat": &graphql.Field{Type: graphql.Float},
		"lon": &graphql.Field{Type: graphql.Float},
	},
})

var airlineType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Airline",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.Int},
		"callsign": &graphql.Field{Type: graphql.String},
		"country":  &graphql.Field{Type: graphql.String},
		"iata":     &graphql.Field{Type: graphql.String},
		"icao":     &graphql.Field{Type: graphql.String},
		"name":     &graphql.Field{Type: graphql.String},
		"type":     &graphql.Field{Type: graphql.String},
		"docKey":   &graphql.Field{Type: graphql.String},
	},
})

var airportType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Airport",
	Fields: graphql.Fields{
		"airportname": &graphql.Field{Type: graphql.String},
		"city":        &graphql.Field{Type: graphql.String},
		"country":     &graphql.Field{Type: graphql.String},
		"faa":         &graphql.Field{Type: graphql.String},
		"geo":         &graphql.Field{Type: geoType},
		"icao":        &graphql.Field{Type: graphql.String},
		"id":          &graphql.Field{Type: graphql.Int},
		"type":        &graphql.Field{Type: graphql.String},
		"tz":          &graphql.Field{Type: graphql.String},
		"docKey":      &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the schema with every root field bound to r.
func NewSchema(r Resolver) (graphql.Schema, error) {
	countryArgs := graphql.FieldConfigArgument{
		"country": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			resolver.FieldAirlinesByCountry: &graphql.Field{
				Type: graphql.NewList(airlineType),
				Args: countryArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					country, _ := p.Args["country"].(string)
					airlines, err := r.AirlinesByCountry(p.Context, country)
					if err != nil {
						return nil, toGraphQLError(err)
					}
					return airlinesToList(airlines), nil
				},
			},
			resolver.FieldAirportsByCountry: &graphql.Field{
				Type: graphql.NewList(airportType),
				Args: countryArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					country, _ := p.Args["country"].(string)
					airports, err := r.AirportsByCountry(p.Context, country)
					if err != nil {
						return nil, toGraphQLError(err)
					}
					return airportsToList(airports), nil
				},
			},
			resolver.FieldAirlineByKey: &graphql.Field{
				Type: airlineType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, ok := p.Args["id"].(int)
					if !ok {
						return nil, fmt.Errorf("argument id must be an integer")
					}
					airline, err := r.AirlineByKey(p.Context, int64(id))
					if err != nil {
						return nil, toGraphQLError(err)
					}
					if airline == nil {
						return nil, nil
					}
					return airlineToMap(airline), nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("build schema: %w", err)
	}
	return schema, nil
}
