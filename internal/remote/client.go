package remote

import (
	"bytes"
	"context"
	"net"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/ksyq12/certgate/internal/config"
	"github.com/ksyq12/certgate/internal/errors"
)

// Action is one of the two selector strings the remote side accepts.
type Action string

const (
	// ActionCheck asks the remote tool for its certificate status report.
	ActionCheck Action = "check"
	// ActionRenew asks the remote tool to attempt a renewal.
	ActionRenew Action = "renew"
)

// Valid reports whether the action is one of the two known selectors.
func (a Action) Valid() bool {
	return a == ActionCheck || a == ActionRenew
}

// ActionClient executes named remote operations and returns their output.
type ActionClient interface {
	// Invoke runs the action on the remote host. Output is returned even
	// on failure so callers can log it for audit.
	Invoke(ctx context.Context, action Action) (string, error)
}

// Client is the SSH implementation of ActionClient. Each Invoke opens a
// fresh connection and session; nothing is kept between calls.
type Client struct {
	user   string
	host   string
	cfg    config.SSHConfig
	logger *zap.Logger
}

// NewClient creates an SSH client for the given user and host.
func NewClient(user, host string, cfg config.SSHConfig, logger *zap.Logger) *Client {
	return &Client{
		user:   user,
		host:   host,
		cfg:    cfg,
		logger: logger,
	}
}

// Invoke dials the target host and runs the action's selector string.
func (c *Client) Invoke(ctx context.Context, action Action) (string, error) {
	if !action.Valid() {
		return "", errors.Wrap(errors.ErrCodeInternal,
			"unknown remote action "+strconv.Quote(string(action)), nil)
	}

	conf, err := c.clientConfig()
	if err != nil {
		return "", err
	}

	addr := net.JoinHostPort(c.host, strconv.Itoa(c.cfg.Port))

	dialer := net.Dialer{Timeout: c.cfg.ConnectTimeout()}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", errors.Unreachable(c.host, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, conf)
	if err != nil {
		conn.Close()
		if strings.Contains(err.Error(), "unable to authenticate") ||
			strings.Contains(err.Error(), "knownhosts") {
			return "", errors.AuthRejected(c.host, err)
		}
		return "", errors.Unreachable(c.host, err)
	}

	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", errors.Unreachable(c.host, err)
	}
	defer session.Close()

	var buf bytes.Buffer
	session.Stdout = &buf
	session.Stderr = &buf

	c.logger.Info("invoking remote action",
		zap.String("host", c.host),
		zap.String("action", string(action)),
	)

	// The deadline keeps a hung remote session from stalling the run;
	// closing the connection unblocks Run.
	cctx, cancel := context.WithTimeout(ctx, c.cfg.CommandTimeout())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- session.Run(string(action))
	}()

	select {
	case err := <-done:
		if err != nil {
			return buf.String(), errors.RemoteFailed(string(action), err)
		}
		return buf.String(), nil
	case <-cctx.Done():
		client.Close()
		<-done
		return buf.String(), errors.Wrap(errors.ErrCodeRemote,
			"remote "+string(action)+" aborted", cctx.Err())
	}
}

// clientConfig builds the ssh.ClientConfig with key auth and host key
// verification.
func (c *Client) clientConfig() (*ssh.ClientConfig, error) {
	key, err := os.ReadFile(c.cfg.KeyFile)
	if err != nil {
		return nil, errors.WrapTarget(errors.ErrCodeRemote,
			"cannot read ssh key", c.cfg.KeyFile, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, errors.WrapTarget(errors.ErrCodeRemote,
			"cannot parse ssh key", c.cfg.KeyFile, err)
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if c.cfg.KnownHostsFile != "" {
		hostKeyCallback, err = knownhosts.New(c.cfg.KnownHostsFile)
		if err != nil {
			return nil, errors.WrapTarget(errors.ErrCodeRemote,
				"cannot load known_hosts", c.cfg.KnownHostsFile, err)
		}
	} else {
		c.logger.Warn("known_hosts not configured, host key verification disabled")
	}

	return &ssh.ClientConfig{
		User:            c.user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         c.cfg.ConnectTimeout(),
	}, nil
}
