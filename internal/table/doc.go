// Package table loads declarative parametrization tables.
//
// A table names a test's value rows, optional explicit variable names, a
// worker count, and static data fixtures. Tables are written in YAML or CUE:
//
//	name: favorite_color_guess
//	vars: "guess"
//	workers: 1
//	values: [orange, yellow, black]
//	fixtures:
//	  my_favorite_color: black
//
// A row written as a list is a tuple spread across the variables; any other
// row is a single value. A single list-valued parameter is written as a
// one-element tuple ([[1, 2]]).
package table
