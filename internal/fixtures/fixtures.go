// Package fixtures embeds the canonical test documents shared across this
// module's package tests, loaded through value.FromYAML so every test
// exercises the same order-preserving decode path the engine ships.
package fixtures

import (
	_ "embed"

	"github.com/njchilds90/jsonquery/value"
)

//go:embed store.yaml
var storeYAML []byte

//go:embed orders.yaml
var ordersYAML []byte

// Store returns the canonical "store" document: a bookstore with a book
// array and a bicycle, used throughout the root package's tests.
func Store() (value.Value, error) {
	return value.FromYAML(storeYAML)
}

// Orders returns a second fixture exercising array-of-objects filtering
// and the set operators (subsetOf/anyOf/noneOf) against tag lists.
func Orders() (value.Value, error) {
	return value.FromYAML(ordersYAML)
}
