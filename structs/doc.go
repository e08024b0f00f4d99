// Package structs defines the shopfront domain models, request bodies and
// response projections.
package structs
