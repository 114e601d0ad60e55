package model

// BackendStatus is the client-observed liveness of the simplification service.
type BackendStatus string

const (
	StatusUnknown BackendStatus = "unknown"
	StatusUp      BackendStatus = "up"
	StatusDown    BackendStatus = "down"
)

// Color is the indicator color shown next to the status.
func (s BackendStatus) Color() string {
	switch s {
	case StatusUp:
		return "green"
	case StatusDown:
		return "red"
	default:
		return "gray"
	}
}

// SimplifyRequest is the body POSTed to {BASE_URL}/simplify.
type SimplifyRequest struct {
	Text string `json:"text" binding:"required"`
}

// SimplifyResult is what the client keeps from a /simplify response.
type SimplifyResult struct {
	PlainEnglish string `json:"plain_english"`
	Category     string `json:"category,omitempty"`
}

// TranslatorState is a point-in-time copy of one client's UI state.
type TranslatorState struct {
	Input    string        `json:"input"`
	Output   string        `json:"output"`
	Category string        `json:"category"`
	Loading  bool          `json:"loading"`
	Status   BackendStatus `json:"status"`
}

// SubmitDisabled mirrors the translate button: off while loading or while
// the backend is not confirmed up.
func (s TranslatorState) SubmitDisabled() bool {
	return s.Loading || s.Status != StatusUp
}

func (s TranslatorState) SubmitLabel() string {
	if s.Loading {
		return "Translating..."
	}
	return "Translate"
}
