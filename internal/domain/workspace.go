package domain

type OpenEditorRequest struct {
	NoteID string `json:"note_id"`
}

type UpdateTextRequest struct {
	Value string `json:"value"`
}

type UpdateStyleRequest struct {
	Font       *string `json:"font" validate:"omitempty,min=1,max=64"`
	Color      *string `json:"color" validate:"omitempty,min=1,max=64"`
	Background *string `json:"background" validate:"omitempty,min=1,max=64"`
}

// FormatRequest applies a wrap marker either by name or by the keyboard
// chord that triggered it. Offsets are UTF-16 code units.
type FormatRequest struct {
	SelStart int    `json:"sel_start" validate:"min=0"`
	SelEnd   int    `json:"sel_end" validate:"min=0"`
	Marker   string `json:"marker" validate:"omitempty,oneof=bold italic"`
	Key      string `json:"key" validate:"omitempty,len=1"`
	Ctrl     bool   `json:"ctrl"`
	Meta     bool   `json:"meta"`
}

type DashboardResponse struct {
	Loading bool          `json:"loading"`
	Notes   []NoteSummary `json:"notes"`
	Error   string        `json:"error,omitempty"`
}
