// Package rulepack contains the compiled validation rules and the
// registration table that is their single source of truth.
//
// Each rule is a small independent predicate unit over the entity graph
// and the reference index. The production catalogue runs to hundreds of
// rules; this pack carries the representative set that exercises the
// full index surface. Adding a rule means adding its unit here and one
// entry to the table in register.go - the resolver, the catalog
// cross-check, and the registration tests all consume that table, so
// there is nothing else to keep in sync.
package rulepack
