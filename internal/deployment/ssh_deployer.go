package deployment

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
)

// DefaultKeyFile is used when no key path is configured.
const DefaultKeyFile = "deploy.pem"

// SSHDeployer publishes exported documents via SSH/SCP
type SSHDeployer struct {
	keyPath   string
	deployURL string
	client    *ssh.Client
	connected bool
}

// NewSSHDeployer creates a new SSH deployer for a user@host:path target.
func NewSSHDeployer(deployURL, keyPath string) *SSHDeployer {
	if keyPath == "" {
		keyPath = DefaultKeyFile
	}
	return &SSHDeployer{
		keyPath:   keyPath,
		deployURL: deployURL,
	}
}

// parseDeployURL parses a deploy URL in format: user@host:path
func (d *SSHDeployer) parseDeployURL() (user, host, remotePath string, err error) {
	if d.deployURL == "" {
		return "", "", "", fmt.Errorf("deploy URL is empty")
	}

	user, hostPath, ok := strings.Cut(d.deployURL, "@")
	if !ok || user == "" {
		return "", "", "", fmt.Errorf("invalid deploy URL format: expected user@host:path")
	}

	host, remotePath, ok = strings.Cut(hostPath, ":")
	if !ok || host == "" {
		return "", "", "", fmt.Errorf("invalid deploy URL format: expected user@host:path")
	}

	return user, host, remotePath, nil
}

// Connect establishes SSH connection
func (d *SSHDeployer) Connect() error {
	if d.connected {
		return nil
	}

	user, host, _, err := d.parseDeployURL()
	if err != nil {
		return fmt.Errorf("failed to parse deploy URL: %w", err)
	}

	keyData, err := os.ReadFile(d.keyPath)
	if err != nil {
		return fmt.Errorf("failed to read SSH key file %s: %w", d.keyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return fmt.Errorf("failed to parse SSH private key: %w", err)
	}

	config := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: verify against a known_hosts file
		Timeout:         30 * time.Second,
	}

	d.client, err = ssh.Dial("tcp", net.JoinHostPort(host, "22"), config)
	if err != nil {
		return fmt.Errorf("failed to connect to SSH server %s: %w", host, err)
	}

	d.connected = true
	log.Info().
		Str("host", host).
		Str("user", user).
		Msg("Successfully connected to SSH server")

	return nil
}

// Disconnect closes SSH connection
func (d *SSHDeployer) Disconnect() error {
	if d.client != nil {
		err := d.client.Close()
		d.connected = false
		d.client = nil
		return err
	}
	return nil
}

// Publish uploads data as a file named name in the remote directory.
func (d *SSHDeployer) Publish(name string, data []byte) error {
	if !d.connected {
		if err := d.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
	}

	_, _, remotePath, err := d.parseDeployURL()
	if err != nil {
		return fmt.Errorf("failed to parse deploy URL: %w", err)
	}

	session, err := d.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session: %w", err)
	}
	defer session.Close()

	remoteFilePath := path.Join(remotePath, name)

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	if err := session.Start(fmt.Sprintf("scp -t %s", remoteFilePath)); err != nil {
		return fmt.Errorf("failed to start SCP session: %w", err)
	}

	if err := writeSCP(stdin, name, data); err != nil {
		return err
	}

	stdin.Close()
	if err := session.Wait(); err != nil {
		return fmt.Errorf("SCP session failed: %w", err)
	}

	log.Info().
		Str("remote_path", remoteFilePath).
		Int("size", len(data)).
		Msg("Successfully published file via SCP")

	return nil
}

// writeSCP streams a single file in the scp sink protocol: header, content,
// then a zero byte.
func writeSCP(w io.Writer, name string, data []byte) error {
	header := fmt.Sprintf("C0644 %d %s\n", len(data), path.Base(name))
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("failed to write SCP header: %w", err)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	if _, err := w.Write([]byte{0}); err != nil {
		return fmt.Errorf("failed to write SCP end marker: %w", err)
	}

	return nil
}
