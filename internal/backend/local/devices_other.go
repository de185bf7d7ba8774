//go:build !windows
// +build !windows

package local

import "github.com/leandrodaf/tuner/sdk/contracts"

// enumerateDevices returns the configured device names. Platforms without a
// wave-in API rely on the capture layer to register its devices up front.
func enumerateDevices(logger contracts.Logger, configured []string) ([]string, error) {
	if len(configured) == 0 {
		logger.Warn("No audio input devices configured")
		return nil, nil
	}
	out := make([]string, len(configured))
	copy(out, configured)
	return out, nil
}
