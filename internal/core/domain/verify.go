package domain

import "fmt"

// DeltaSaved reports whether the classes read back from the classifier
// match the classes that were submitted.
//
// The classifier drops deleted entries instead of returning them as null,
// so the requested delta is first reduced to what a successful write leaves
// behind (see Classes.Saved) and then compared for exact equality.
func DeltaSaved(remote, requested Classes) bool {
	return requested.Saved().Equal(remote)
}

// VerificationError carries what was submitted and what was read back when
// an update did not land.
type VerificationError struct {
	Group string

	ExpectedClasses Classes
	ExpectedRule    *RuleTree

	ObservedClasses Classes
	ObservedRule    *RuleTree
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s: group %q expected classes %s rule %s, observed classes %s rule %s",
		ErrUpdateVerificationFailed, e.Group,
		e.ExpectedClasses.Saved(), e.ExpectedRule, e.ObservedClasses, e.ObservedRule)
}

// Unwrap allows errors.Is(err, ErrUpdateVerificationFailed).
func (e *VerificationError) Unwrap() error {
	return ErrUpdateVerificationFailed
}
