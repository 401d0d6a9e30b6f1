package platform

import "runtime"

// Platform identifies the operating system family the tool runs on.
type Platform int

const (
	Unsupported Platform = iota
	MacOS
	Linux
	Windows
)

var platformsByGOOS = map[string]Platform{
	"darwin":  MacOS,
	"linux":   Linux,
	"windows": Windows,
}

// Detect maps a GOOS value onto a Platform. Unknown values are Unsupported.
func Detect(goos string) Platform {
	detected, found := platformsByGOOS[goos]
	if !found {
		return Unsupported
	}
	return detected
}

// Current reports the Platform of the running binary.
func Current() Platform {
	return Detect(runtime.GOOS)
}

// Supported reports whether the platform has a provisioning strategy.
func (platform Platform) Supported() bool {
	return platform != Unsupported
}

func (platform Platform) String() string {
	switch platform {
	case MacOS:
		return "macOS"
	case Linux:
		return "Linux"
	case Windows:
		return "Windows"
	default:
		return "unsupported"
	}
}
