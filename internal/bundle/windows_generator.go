package bundle

import (
	"context"
	"encoding/pem"
	"fmt"
)

const certificatePemBlockType = "CERTIFICATE"

// RootStore enumerates DER encoded certificates from a trust store.
type RootStore interface {
	Certificates() ([][]byte, error)
}

// WindowsGenerator converts the ROOT system store to PEM.
type WindowsGenerator struct {
	rootStore RootStore
}

// NewWindowsGenerator constructs a WindowsGenerator over rootStore.
func NewWindowsGenerator(rootStore RootStore) *WindowsGenerator {
	return &WindowsGenerator{rootStore: rootStore}
}

func (generator *WindowsGenerator) Generate(ctx context.Context, userSupplied []byte) ([]byte, error) {
	encodedCertificates, err := generator.rootStore.Certificates()
	if err != nil {
		return nil, fmt.Errorf("%w: enumerate root store: %w", ErrGenerate, err)
	}
	pemCertificates := make([][]byte, 0, len(encodedCertificates))
	for _, encodedCertificate := range encodedCertificates {
		pemCertificates = append(pemCertificates, pem.EncodeToMemory(&pem.Block{Type: certificatePemBlockType, Bytes: encodedCertificate}))
	}
	return concatenate(userSupplied, pemCertificates...), nil
}
