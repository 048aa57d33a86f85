package deployment

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseDeployURL(t *testing.T) {
	testCases := []struct {
		name       string
		url        string
		user       string
		host       string
		remotePath string
		wantErr    bool
	}{
		{"Full", "deploy@example.com:/var/www/exports", "deploy", "example.com", "/var/www/exports", false},
		{"RelativePath", "me@10.0.0.5:exports", "me", "10.0.0.5", "exports", false},
		{"EmptyPath", "me@host:", "me", "host", "", false},
		{"Empty", "", "", "", "", true},
		{"NoUser", "example.com:/tmp", "", "", "", true},
		{"NoPath", "deploy@example.com", "", "", "", true},
		{"EmptyUser", "@example.com:/tmp", "", "", "", true},
		{"EmptyHost", "deploy@:/tmp", "", "", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewSSHDeployer(tc.url, "")
			user, host, remotePath, err := d.parseDeployURL()

			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got nil", tc.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if user != tc.user || host != tc.host || remotePath != tc.remotePath {
				t.Errorf("Expected %s/%s/%s, got %s/%s/%s", tc.user, tc.host, tc.remotePath, user, host, remotePath)
			}
		})
	}
}

func TestNewSSHDeployerDefaultKey(t *testing.T) {
	if d := NewSSHDeployer("a@b:c", ""); d.keyPath != DefaultKeyFile {
		t.Errorf("Expected default key %s, got %s", DefaultKeyFile, d.keyPath)
	}
	if d := NewSSHDeployer("a@b:c", "keys/id"); d.keyPath != "keys/id" {
		t.Errorf("Expected configured key, got %s", d.keyPath)
	}
}

func TestWriteSCP(t *testing.T) {
	var buf bytes.Buffer
	data := []byte("<spreadsheet/>\n")

	if err := writeSCP(&buf, "exports/demo.xml", data); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := "C0644 15 demo.xml\n<spreadsheet/>\n\x00"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriteSCPPropagatesErrors(t *testing.T) {
	err := writeSCP(failingWriter{}, "demo.xml", []byte("x"))
	if err == nil || !strings.Contains(err.Error(), "SCP header") {
		t.Errorf("Expected header write error, got %v", err)
	}
}

func TestPublishWithoutKey(t *testing.T) {
	d := NewSSHDeployer("deploy@127.0.0.1:/tmp", filepath.Join(t.TempDir(), "missing.pem"))

	err := d.Publish("demo.xml", []byte("<spreadsheet/>"))
	if err == nil {
		t.Fatal("Expected error when key file is missing")
	}
	if !strings.Contains(err.Error(), "failed to read SSH key file") {
		t.Errorf("Expected key file error, got %v", err)
	}
	if err := d.Disconnect(); err != nil {
		t.Errorf("Expected disconnect without connection to succeed, got %v", err)
	}
}
