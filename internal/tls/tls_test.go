package tls

import (
	standardtls "crypto/tls"
	"crypto/x509"
	"path/filepath"
	"testing"
	"time"
)

func TestGenerateSelfSignedCert(t *testing.T) {
	t.Parallel()

	cert, err := GenerateSelfSignedCert()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cert == nil {
		t.Fatal("certificate is nil")
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		t.Fatalf("failed to parse certificate: %v", err)
	}

	if leaf.Subject.CommonName != "localhost" {
		t.Errorf("CN: got %q, want %q", leaf.Subject.CommonName, "localhost")
	}

	foundDNS := false
	for _, dns := range leaf.DNSNames {
		if dns == "localhost" {
			foundDNS = true
			break
		}
	}
	if !foundDNS {
		t.Errorf("DNS SANs: %v does not contain localhost", leaf.DNSNames)
	}

	foundIP := false
	for _, ip := range leaf.IPAddresses {
		if ip.String() == "127.0.0.1" {
			foundIP = true
			break
		}
	}
	if !foundIP {
		t.Errorf("IP SANs: %v does not contain 127.0.0.1", leaf.IPAddresses)
	}

	if leaf.NotAfter.Before(time.Now().Add(364 * 24 * time.Hour)) {
		t.Errorf("NotAfter: %v expires earlier than expected", leaf.NotAfter)
	}
}

func TestLoad_Disabled(t *testing.T) {
	t.Parallel()

	cfg, err := Load("", "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Error("expected nil config when TLS is disabled")
	}
}

func TestLoad_SelfSigned(t *testing.T) {
	t.Parallel()

	cfg, err := Load("", "", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected a TLS config, got nil")
	}
	if len(cfg.Certificates) != 1 {
		t.Errorf("Certificates: got %d, want 1", len(cfg.Certificates))
	}
	if cfg.MinVersion != standardtls.VersionTLS12 {
		t.Errorf("MinVersion: got %#x, want TLS 1.2", cfg.MinVersion)
	}
}

func TestLoad_MissingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.crt"), filepath.Join(dir, "missing.key"), false); err == nil {
		t.Error("expected error for missing certificate files")
	}
}

func TestLoad_HalfConfigured(t *testing.T) {
	t.Parallel()

	if _, err := Load("cert.pem", "", false); err == nil {
		t.Error("expected error when only cert_file is set")
	}
	if _, err := Load("", "key.pem", false); err == nil {
		t.Error("expected error when only key_file is set")
	}
}
