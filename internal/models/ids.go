package models

// Keyed is a record with an integer identifier.
type Keyed interface {
	Key() int
}

// NextID returns the next available identifier of a collection: one past the
// highest id in use, or 1 for an empty collection.
func NextID[T Keyed](records []T) int {
	next := 1
	for _, r := range records {
		if r.Key() >= next {
			next = r.Key() + 1
		}
	}
	return next
}

// Compact rewrites every record's id to its position plus one.
func Compact[T any, P interface {
	*T
	SetKey(int)
}](records []T) {
	for i := range records {
		P(&records[i]).SetKey(i + 1)
	}
}

// IDPolicy selects what happens to remaining ids after a delete.
type IDPolicy string

const (
	// IDPolicyCompact renumbers users and wishlist lines after a delete.
	IDPolicyCompact IDPolicy = "compact"
	// IDPolicyStable never rewrites an id once issued.
	IDPolicyStable IDPolicy = "stable"
)

func (p IDPolicy) Valid() bool {
	return p == IDPolicyCompact || p == IDPolicyStable
}
