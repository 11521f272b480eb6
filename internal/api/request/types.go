package request

// ResizeRequest is the request body for changing the roster size
type ResizeRequest struct {
	Size int `json:"size"`
}

// SetPhaseRequest is the request body for changing phase
type SetPhaseRequest struct {
	Phase string `json:"phase"`
}

// RenameRequest is the request body for renaming a player
type RenameRequest struct {
	Name string `json:"name"`
}

// AdjustScoreRequest is the request body for changing a player's score.
// Exactly one of Magnitude (quick buttons) or Text (custom entry) is used;
// Text wins when both are set.
type AdjustScoreRequest struct {
	Magnitude int    `json:"magnitude,omitempty"`
	Text      string `json:"text,omitempty"`
	Direction string `json:"direction"`
}
