//go:build windows
// +build windows

package local

import (
	"fmt"
	"unsafe"

	"github.com/leandrodaf/tuner/sdk/contracts"
	"golang.org/x/sys/windows"
)

// waveInCaps mirrors WAVEINCAPSW.
type waveInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwFormats      uint32
	wChannels      uint16
	wReserved1     uint16
}

// Load the winmm.dll library and required functions
var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procWaveInGetNumDevs  = winmm.NewProc("waveInGetNumDevs")
	procWaveInGetDevCapsW = winmm.NewProc("waveInGetDevCapsW")
)

// enumerateDevices lists the audio input devices known to the wave API. The
// configured names are ignored on Windows.
func enumerateDevices(logger contracts.Logger, _ []string) ([]string, error) {
	if err := procWaveInGetNumDevs.Find(); err != nil {
		return nil, fmt.Errorf("load winmm: %w", err)
	}

	r0, _, _ := procWaveInGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		logger.Warn("No audio input devices found")
		return nil, nil
	}

	devices := make([]string, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps waveInCaps
		r1, _, _ := procWaveInGetDevCapsW.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			logger.Warn("Failed to get information for audio input device", logger.Field().Int("index", int(i)))
			continue
		}
		devices = append(devices, windows.UTF16ToString(caps.szPname[:]))
	}
	return devices, nil
}
