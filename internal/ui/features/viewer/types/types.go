// Package types holds the viewer's request signals and shared view types.
package types //nolint:revive // intentional: imported with alias viewertypes

// Camera actions accepted by the camera endpoint.
const (
	ActionOrbit = "orbit"
	ActionPan   = "pan"
	ActionZoom  = "zoom"
	ActionReset = "reset"
)

// Edit operations accepted by the edit endpoint.
const (
	OpEdit   = "edit"
	OpDelete = "delete"
	OpInsert = "insert"
	OpUndo   = "undo"
	OpSet    = "set"
)

// CameraSignals is the datastar signal payload for camera actions.
type CameraSignals struct {
	Action string  `json:"action"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Factor float64 `json:"factor"`
}

// EditSignals is the datastar signal payload for sequence edits.
type EditSignals struct {
	Op    string `json:"op"`
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// SpeedSignals is the datastar signal payload for the rotation speed.
type SpeedSignals struct {
	Speed float64 `json:"speed"`
}

// Status is a one-line message shown under the edit controls.
type Status struct {
	Message string
	Error   bool
}
