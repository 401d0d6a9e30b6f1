package environment

import (
	"context"

	"github.com/tyemirov/rootbundle/internal/bundle"
)

const (
	VariableCertificatePath    = "CERT_PATH"
	VariableCertificateDir     = "CERT_DIR"
	VariableSSLCertificateFile = "SSL_CERT_FILE"
	VariableSSLCertificateDir  = "SSL_CERT_DIR"
	VariableRequestsCABundle   = "REQUESTS_CA_BUNDLE"
	VariableNodeExtraCACerts   = "NODE_EXTRA_CA_CERTS"
)

// Binding assigns a value to an environment variable.
type Binding struct {
	Name  string
	Value string
}

// Configurator points downstream tools at the stored bundle.
type Configurator interface {
	Configure(ctx context.Context, location bundle.Location) error
}

// MachineBindings lists the variables persisted machine-wide on Windows.
// Values are literal because there is no profile to expand references.
func MachineBindings(location bundle.Location) []Binding {
	return []Binding{
		{Name: VariableSSLCertificateFile, Value: location.Path()},
		{Name: VariableSSLCertificateDir, Value: location.Directory},
		{Name: VariableRequestsCABundle, Value: location.Path()},
		{Name: VariableNodeExtraCACerts, Value: location.Path()},
	}
}
