package git

import (
	"net"
	"os"
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/mrz1836/git-deploy/internal/constants"
	"github.com/mrz1836/git-deploy/internal/errors"
)

// KeySource supplies SSH signers.
type KeySource interface {
	Signers() ([]ssh.Signer, error)
	Close() error
}

// CredentialSource hands out SSH key material to one backend operation.
// Every call to Next counts as one authentication attempt; past the bound
// Next fails with ErrAuthentication so a misbehaving transport cannot loop
// forever. A CredentialSource must not be shared between operations.
type CredentialSource struct {
	keys KeySource
	max  int

	mu       sync.Mutex
	attempts int
}

// NewCredentialSource returns a source allowing max attempts. A max below 1
// uses constants.MaxCredentialAttempts.
func NewCredentialSource(keys KeySource, maxAttempts int) *CredentialSource {
	if maxAttempts < 1 {
		maxAttempts = constants.MaxCredentialAttempts
	}
	return &CredentialSource{keys: keys, max: maxAttempts}
}

// Next returns the signers for the next authentication attempt.
func (c *CredentialSource) Next() ([]ssh.Signer, error) {
	c.mu.Lock()
	c.attempts++
	n := c.attempts
	c.mu.Unlock()

	if n > c.max {
		return nil, errors.Wrapf(errors.ErrAuthentication,
			"credential attempts exceeded (%d > %d)", n, c.max)
	}
	signers, err := c.keys.Signers()
	if err != nil {
		return nil, errors.Join(errors.ErrAuthentication, err)
	}
	return signers, nil
}

// Attempts returns the number of calls to Next so far.
func (c *CredentialSource) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Close releases the key source.
func (c *CredentialSource) Close() error {
	return c.keys.Close()
}

// CredentialFactory creates a fresh CredentialSource per operation.
type CredentialFactory func() *CredentialSource

// AgentCredentials returns a factory of sources backed by the SSH agent at
// $SSH_AUTH_SOCK.
func AgentCredentials() CredentialFactory {
	return func() *CredentialSource {
		return NewCredentialSource(&AgentKeys{Socket: os.Getenv(constants.SSHAuthSockEnv)}, constants.MaxCredentialAttempts)
	}
}

// StaticCredentials returns a factory of sources that always offer signers.
func StaticCredentials(signers ...ssh.Signer) CredentialFactory {
	return func() *CredentialSource {
		return NewCredentialSource(StaticKeys(signers), constants.MaxCredentialAttempts)
	}
}

// StaticKeys is a fixed set of signers.
type StaticKeys []ssh.Signer

// Signers implements KeySource.
func (s StaticKeys) Signers() ([]ssh.Signer, error) {
	return s, nil
}

// Close implements KeySource.
func (StaticKeys) Close() error {
	return nil
}

// AgentKeys reads signers from an SSH agent. The agent connection is opened
// on first use and kept until Close, since agent signers sign through it.
type AgentKeys struct {
	Socket string

	mu     sync.Mutex
	conn   net.Conn
	client agent.ExtendedAgent
}

// Signers implements KeySource.
func (a *AgentKeys) Signers() ([]ssh.Signer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client == nil {
		if a.Socket == "" {
			return nil, errors.Wrap(errors.ErrEmptyValue, constants.SSHAuthSockEnv+" is not set")
		}
		conn, err := net.Dial("unix", a.Socket)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to ssh agent")
		}
		a.conn = conn
		a.client = agent.NewClient(conn)
	}

	signers, err := a.client.Signers()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ssh agent keys")
	}
	return signers, nil
}

// Close implements KeySource.
func (a *AgentKeys) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn, a.client = nil, nil
	return err
}
