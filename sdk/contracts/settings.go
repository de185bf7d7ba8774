package contracts

// Settings is the persisted aggregate. Every field is optional: nil means
// "use the default" when loading and "keep the stored value" when merging.
type Settings struct {
	DeviceName        *string         `json:"device_name,omitempty"`
	Threshold         *float64        `json:"threshold,omitempty"`
	ChannelMode       *ChannelMode    `json:"channel_mode,omitempty"`
	TrayIconMode      *TrayIconMode   `json:"tray_icon_mode,omitempty"`
	PitchMode         *PitchMode      `json:"pitch_mode,omitempty"`
	CustomPitch       *float64        `json:"custom_pitch,omitempty"`
	TuningShift       *int            `json:"tuning_shift,omitempty"`
	DropTuningEnabled *bool           `json:"drop_tuning_enabled,omitempty"`
	DropTuningNote    *DropTuningNote `json:"drop_tuning_note,omitempty"`
	ThemeMode         *string         `json:"theme_mode,omitempty"`
	Locale            *string         `json:"locale,omitempty"`
}

// Merge returns s with every non-nil field of patch laid over it.
func (s Settings) Merge(patch Settings) Settings {
	out := s
	if patch.DeviceName != nil {
		out.DeviceName = patch.DeviceName
	}
	if patch.Threshold != nil {
		out.Threshold = patch.Threshold
	}
	if patch.ChannelMode != nil {
		out.ChannelMode = patch.ChannelMode
	}
	if patch.TrayIconMode != nil {
		out.TrayIconMode = patch.TrayIconMode
	}
	if patch.PitchMode != nil {
		out.PitchMode = patch.PitchMode
	}
	if patch.CustomPitch != nil {
		out.CustomPitch = patch.CustomPitch
	}
	if patch.TuningShift != nil {
		out.TuningShift = patch.TuningShift
	}
	if patch.DropTuningEnabled != nil {
		out.DropTuningEnabled = patch.DropTuningEnabled
	}
	if patch.DropTuningNote != nil {
		out.DropTuningNote = patch.DropTuningNote
	}
	if patch.ThemeMode != nil {
		out.ThemeMode = patch.ThemeMode
	}
	if patch.Locale != nil {
		out.Locale = patch.Locale
	}
	return out
}

// Ptr returns a pointer to v. Handy for building Settings patches.
func Ptr[T any](v T) *T {
	return &v
}
