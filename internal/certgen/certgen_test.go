package certgen

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	certPEM, keyPEM, err := Generate(DefaultOptions(), now)
	require.NoError(t, err)

	block, _ := pem.Decode(certPEM)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cert.Subject.CommonName)
	assert.Equal(t, []string{"Connectly Development"}, cert.Subject.Organization)
	assert.Equal(t, []string{"localhost"}, cert.DNSNames)
	require.Len(t, cert.IPAddresses, 1)
	assert.Equal(t, "127.0.0.1", cert.IPAddresses[0].String())
	assert.Equal(t, x509.SHA256WithRSA, cert.SignatureAlgorithm)
	assert.True(t, cert.NotAfter.Equal(now.Add(365*24*time.Hour)), "valid for a year")
	assert.NoError(t, cert.VerifyHostname("localhost"))

	_, err = tls.X509KeyPair(certPEM, keyPEM)
	assert.NoError(t, err, "certificate and key must match")
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()

	certPath, keyPath, err := WriteFiles(dir, DefaultOptions())
	require.NoError(t, err)

	_, err = tls.LoadX509KeyPair(certPath, keyPath)
	require.NoError(t, err)

	info, err := os.Stat(keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
