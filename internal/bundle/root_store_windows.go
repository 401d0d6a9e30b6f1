//go:build windows

package bundle

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const systemRootStoreName = "ROOT"

type systemRootStore struct{}

// NewSystemRootStore returns the Windows ROOT certificate store.
func NewSystemRootStore() RootStore {
	return systemRootStore{}
}

func (systemRootStore) Certificates() ([][]byte, error) {
	storeName, err := windows.UTF16PtrFromString(systemRootStoreName)
	if err != nil {
		return nil, err
	}
	store, err := windows.CertOpenSystemStore(0, storeName)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", systemRootStoreName, err)
	}
	defer windows.CertCloseStore(store, 0)

	var certificates [][]byte
	var certificateContext *windows.CertContext
	for {
		certificateContext, err = windows.CertEnumCertificatesInStore(store, certificateContext)
		if certificateContext == nil {
			if errors.Is(err, windows.Errno(windows.CRYPT_E_NOT_FOUND)) {
				return certificates, nil
			}
			return nil, fmt.Errorf("enumerate %s store: %w", systemRootStoreName, err)
		}
		encoded := unsafe.Slice(certificateContext.EncodedCert, certificateContext.Length)
		certificates = append(certificates, append([]byte(nil), encoded...))
	}
}
