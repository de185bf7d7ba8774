package remote

import "encoding/json"

// Method names understood by the detection engine.
const (
	MethodListDevices     = "get_audio_devices"
	MethodStartListening  = "start_listening"
	MethodSetThreshold    = "set_threshold"
	MethodSetChannelMode  = "set_channel_mode"
	MethodSetPitchMode    = "set_pitch_mode"
	MethodSetCustomPitch  = "set_custom_pitch"
	MethodSetTuningShift  = "set_tuning_shift"
	MethodSetDropTuning   = "set_drop_tuning"
	MethodSetTrayIconMode = "set_tray_icon_mode"
	MethodGetSettings     = "get_settings"
	MethodSetSettings     = "set_settings"
)

// Message is one JSON text frame. Requests carry ID, Method and Params;
// responses echo ID with Result or Error; events carry Event and Payload.
type Message struct {
	ID      uint64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type startListeningParams struct {
	DeviceName string `json:"deviceName"`
}

type thresholdParams struct {
	Ratio float64 `json:"ratio"`
}

type modeParams struct {
	Mode int `json:"mode"`
}

type customPitchParams struct {
	Pitch float64 `json:"pitch"`
}

type tuningShiftParams struct {
	Semitones int `json:"semitones"`
}

type dropTuningParams struct {
	Enabled bool `json:"enabled"`
	Note    int  `json:"note"`
}
