// Package travelql provides an in-process Go client for the travel dataset
// resolvers, backed by Redis with the JSON and search modules, or by Valkey.
//
// The client exposes the same three fields as the GraphQL endpoint, with
// the same failure policies, without going through HTTP:
//
//	client, _ := travelql.New(ctx, travelql.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	airlines, _ := client.AirlinesByCountry(ctx, "France")
//	airport, _ := client.AirportsByCountry(ctx, "United States")
//	airline, _ := client.AirlineByKey(ctx, 10)
//
// Under the default degrade policy a store failure resolves to nil with a nil
// error. Use WithFailurePolicy(travelql.Surface) to receive a *FieldError
// instead.
package travelql
