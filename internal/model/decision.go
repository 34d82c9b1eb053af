package model

// Decision is the outcome of the slot decision engine for one location slot.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionAdd
	DecisionUpdate
	DecisionRemove
)

func (d Decision) String() string {
	switch d {
	case DecisionNone:
		return "none"
	case DecisionAdd:
		return "add"
	case DecisionUpdate:
		return "update"
	case DecisionRemove:
		return "remove"
	}
	return "unknown"
}

// Flags records what a reconciliation attempt actually changed. It is
// created at the start of an attempt, populated by the decision engine, read
// once by the summary synthesizer, and discarded when the attempt ends.
type Flags struct {
	CameraAdded    bool
	CameraReplaced bool
	CameraRemoved  bool
	ObjectAdded    bool
	ObjectReplaced bool
	ObjectRemoved  bool

	CreditLineAdded bool
	// AttributionUsed is set when a third-party geocoding service was
	// consulted during the attempt; its attribution clause must then
	// appear in the edit summary regardless of which slots changed.
	AttributionUsed bool
}

// Camera returns the camera slot outcome encoded in the flags.
func (f Flags) Camera() Decision {
	switch {
	case f.CameraAdded:
		return DecisionAdd
	case f.CameraReplaced:
		return DecisionUpdate
	case f.CameraRemoved:
		return DecisionRemove
	}
	return DecisionNone
}

// Object returns the object slot outcome encoded in the flags.
func (f Flags) Object() Decision {
	switch {
	case f.ObjectAdded:
		return DecisionAdd
	case f.ObjectReplaced:
		return DecisionUpdate
	case f.ObjectRemoved:
		return DecisionRemove
	}
	return DecisionNone
}

// SetCamera records a camera slot decision.
func (f *Flags) SetCamera(d Decision) {
	f.CameraAdded = d == DecisionAdd
	f.CameraReplaced = d == DecisionUpdate
	f.CameraRemoved = d == DecisionRemove
}

// SetObject records an object slot decision.
func (f *Flags) SetObject(d Decision) {
	f.ObjectAdded = d == DecisionAdd
	f.ObjectReplaced = d == DecisionUpdate
	f.ObjectRemoved = d == DecisionRemove
}
