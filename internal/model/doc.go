// Package model implements component C9: the modelling sub-language
// compiler. Parse tokenizes and builds
// an AST, desugar rewrites implication/equivalence/xor into primitive
// And/Or/Not, and Compile performs a Tseitin transformation (with
// cardinality constraints lowered to a sequential-counter register chain
// built from the same gates) to emit DIMACS CNF.
package model
