package wasmbridge

// State tracks the bridge load sequence. Transitions are strictly
// forward; any failure moves to Failed with no recovery transition.
type State int

const (
	Unloaded State = iota
	PathResolved
	BytesLoaded
	Compiled
	Instantiated
	Published
	Failed
)

var stateNames = [...]string{
	Unloaded:     "unloaded",
	PathResolved: "path-resolved",
	BytesLoaded:  "bytes-loaded",
	Compiled:     "compiled",
	Instantiated: "instantiated",
	Published:    "published",
	Failed:       "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Published || s == Failed
}
