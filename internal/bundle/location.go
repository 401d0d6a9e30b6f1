package bundle

import (
	"github.com/tyemirov/rootbundle/internal/platform"
)

const (
	// DefaultFileName is the name of the merged bundle on every platform.
	DefaultFileName = "custom-root-bundle.pem"

	unixCertificateDirectory    = "/etc/ssl/certs/"
	windowsCertificateDirectory = "C:\\Windows\\System32\\drivers\\etc\\"
)

// Location names the directory and file the bundle is written to.
// Directory keeps its trailing separator so Path is a plain concatenation.
type Location struct {
	Directory string
	FileName  string
}

// Path returns the full bundle path.
func (location Location) Path() string {
	return location.Directory + location.FileName
}

// LocationFor returns the fixed bundle location for a supported platform.
func LocationFor(target platform.Platform) (Location, bool) {
	switch target {
	case platform.MacOS, platform.Linux:
		return Location{Directory: unixCertificateDirectory, FileName: DefaultFileName}, true
	case platform.Windows:
		return Location{Directory: windowsCertificateDirectory, FileName: DefaultFileName}, true
	default:
		return Location{}, false
	}
}
