// Package rest provides a RestaurantBackend that talks to a back-office
// server over HTTP and JSON.
//
// The wire types in this package define the REST contract. The demo server
// in the httpapi package speaks the same contract, so both sides share them.
//
// Every response body is decoded into a typed struct and checked with
// go-playground/validator before it is converted to domain types. A body
// that does not match the contract fails loudly instead of rendering half
// a table.
package rest
