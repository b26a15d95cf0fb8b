// Package models holds the persisted ledger entities and the typed update
// values that are the only way to mutate them.
package models

// All returns every persisted model in dependency order, parents first.
func All() []interface{} {
	return []interface{}{
		&Property{},
		&Invoice{},
		&Unit{},
		&Lease{},
		&Tenant{},
		&Payment{},
		&RentAmendment{},
		&PaymentAlert{},
	}
}
