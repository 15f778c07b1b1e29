package labels

import "fmt"

// DuplicatePolicy decides whether two records may share an identifier.
// The zero value is invalid; callers must choose one.
type DuplicatePolicy int

const (
	policyUnset DuplicatePolicy = iota

	// DuplicatesReject fails Add with DUPLICATE_IDENTIFIER when the identifier is stored.
	DuplicatesReject

	// DuplicatesAllow appends regardless; reprinting a device is allowed.
	DuplicatesAllow
)

// ParsePolicy maps configuration values ("reject", "allow") to a policy.
func ParsePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "reject":
		return DuplicatesReject, nil
	case "allow":
		return DuplicatesAllow, nil
	default:
		return policyUnset, fmt.Errorf("unknown duplicate policy %q (want reject or allow)", s)
	}
}

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicatesReject:
		return "reject"
	case DuplicatesAllow:
		return "allow"
	default:
		return "unset"
	}
}

// Valid reports whether p is one of the defined policies.
func (p DuplicatePolicy) Valid() bool {
	return p == DuplicatesReject || p == DuplicatesAllow
}
