// Package domain defines the core business entities for ncedit.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Group: A classifier node group with its rule and classes
//   - Classes: Class and parameter entries with an explicit delete state
//   - RuleTree: The boolean predicate chain deciding group membership
//   - DesiredState: What a user wants a group to look like
//
// It also holds the reconciliation engine: the Ensure* methods on Group
// compute idempotent changes in memory and report whether anything changed,
// and DeltaSaved decides whether a submitted delta landed on the classifier.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
