package types

// Status is the readiness status of one resource class of a work-order line.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusMissing Status = "missing"
	// StatusStarted and StatusClosed are valid for the production class only.
	StatusStarted Status = "started"
	StatusClosed  Status = "closed"
)

// ResourceClass is one of the three independently tracked readiness
// dimensions of a work-order line.
type ResourceClass string

const (
	ClassMaterial   ResourceClass = "material"
	ClassTooling    ResourceClass = "tooling"
	ClassProduction ResourceClass = "production"
)

var legalStatuses = map[ResourceClass]map[Status]struct{}{
	ClassMaterial: {
		StatusPending: {},
		StatusReady:   {},
		StatusMissing: {},
	},
	ClassTooling: {
		StatusPending: {},
		StatusReady:   {},
		StatusMissing: {},
	},
	ClassProduction: {
		StatusPending: {},
		StatusReady:   {},
		StatusStarted: {},
		StatusMissing: {},
		StatusClosed:  {},
	},
}

// LegalStatus reports whether s is an accepted target for the given class.
func LegalStatus(class ResourceClass, s Status) bool {
	set, ok := legalStatuses[class]
	if !ok {
		return false
	}
	_, ok = set[s]
	return ok
}

// progressionRank orders the production progression pending -> ready ->
// started -> closed. missing sits outside the progression.
var progressionRank = map[Status]int{
	StatusPending: 0,
	StatusMissing: 0,
	StatusReady:   1,
	StatusStarted: 2,
	StatusClosed:  3,
}

// ProgressionRank returns the position of s in the production progression.
func ProgressionRank(s Status) int {
	return progressionRank[s]
}
