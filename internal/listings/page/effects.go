package page

// Effect is a command for the view layer produced by a state transition.
type Effect struct {
	Action     string `json:"action"`
	PropertyID string `json:"propertyId"`
}

const (
	ActionEnsureVisible = "ensureVisible"
	ActionRailSync      = "railSync"
)

// effectRecorder collects the coordinator's scroll requests so the HTTP
// layer can hand them to the client. Only properties with a rendered entry,
// as reported by listed, can be scrolled to.
type effectRecorder struct {
	pending []Effect
	listed  func(propertyID string) bool
}

func (r *effectRecorder) EnsureVisible(propertyID string) {
	r.record(ActionEnsureVisible, propertyID)
}

func (r *effectRecorder) SyncTo(propertyID string) {
	r.record(ActionRailSync, propertyID)
}

func (r *effectRecorder) record(action, propertyID string) {
	if r.listed != nil && !r.listed(propertyID) {
		return
	}
	r.pending = append(r.pending, Effect{Action: action, PropertyID: propertyID})
}

func (r *effectRecorder) drain() []Effect {
	out := r.pending
	r.pending = nil
	if out == nil {
		return []Effect{}
	}
	return out
}
