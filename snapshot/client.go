package snapshot

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/xlnfinance/xln-sub004/rdb"
	"github.com/xlnfinance/xln-sub004/router"
	"gopkg.in/yaml.v3"
)

// Client serves network snapshots read from a YAML file and hands payment
// instructions to an outbox file that the consensus runtime consumes.
type Client struct {
	snapshotPath string
	outboxPath   string
	logger       router.Logger

	mu    sync.RWMutex
	state *state

	refreshMu  sync.Mutex
	refreshing bool
	wg         sync.WaitGroup

	outboxMu sync.Mutex
}

type Config struct {
	SnapshotPath string
	OutboxPath   string
	Logger       router.Logger
}

var (
	_ router.Source    = (*Client)(nil)
	_ router.Refresher = (*Client)(nil)
	_ router.Submitter = (*Client)(nil)
)

func NewClient(config *Config) (*Client, error) {
	client := &Client{
		snapshotPath: config.SnapshotPath,
		outboxPath:   config.OutboxPath,
		logger:       config.Logger,
	}

	if client.logger == nil {
		client.logger = discardLogger{}
	}

	if err := client.Reload(); err != nil {
		return nil, errors.Wrap(err, "Could not load snapshot")
	}

	return client, nil
}

func (client *Client) Start() error {
	return nil
}

// Stop waits for in-flight refreshes.
func (client *Client) Stop() error {
	client.wg.Wait()
	return nil
}

// Reload reads and validates the snapshot file and swaps it in.
func (client *Client) Reload() error {
	raw, err := os.ReadFile(client.snapshotPath)
	if err != nil {
		return errors.Wrapf(err, "Could not read snapshot %v", client.snapshotPath)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return errors.Wrapf(err, "Could not parse snapshot %v", client.snapshotPath)
	}

	s, err := doc.validate()
	if err != nil {
		return errors.Wrapf(err, "Invalid snapshot %v", client.snapshotPath)
	}
	s.loadedAt = time.Now()

	client.mu.Lock()
	client.state = s
	client.mu.Unlock()

	client.logger.Debugf("Loaded %v local entities and %v profiles", len(s.local.Entities), len(s.profiles))

	return nil
}

func (client *Client) current() *state {
	client.mu.RLock()
	defer client.mu.RUnlock()
	return client.state
}

func (client *Client) LocalState() (*rdb.LocalState, error) {
	return client.current().local, nil
}

func (client *Client) Profiles() ([]*rdb.Profile, error) {
	return client.current().profiles, nil
}

func (client *Client) LoadedAt() time.Time {
	return client.current().loadedAt
}

// RequestRefresh reloads the snapshot in the background. Requests arriving
// while a reload is running are folded into it.
func (client *Client) RequestRefresh(ctx context.Context, entities []rdb.EntityId) error {
	client.refreshMu.Lock()
	defer client.refreshMu.Unlock()

	if client.refreshing {
		return nil
	}
	client.refreshing = true

	client.logger.Debugf("Refreshing snapshot for %v entities", len(entities))

	client.wg.Add(1)
	go func() {
		defer client.wg.Done()

		if err := client.Reload(); err != nil {
			client.logger.Warnf("Could not refresh snapshot: %v", err)
		}

		client.refreshMu.Lock()
		client.refreshing = false
		client.refreshMu.Unlock()
	}()

	return nil
}

// SubmitPayment appends instruction as a YAML document to the outbox.
func (client *Client) SubmitPayment(ctx context.Context, instruction *rdb.PaymentInstruction) error {
	if client.outboxPath == "" {
		return errors.New("No outbox configured")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	client.outboxMu.Lock()
	defer client.outboxMu.Unlock()

	file, err := os.OpenFile(client.outboxPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return errors.Wrapf(err, "Could not open outbox %v", client.outboxPath)
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, "---"); err != nil {
		return errors.Wrap(err, "Could not write outbox")
	}

	encoder := yaml.NewEncoder(file)
	if err := encoder.Encode(newInstructionDoc(instruction)); err != nil {
		return errors.Wrap(err, "Could not encode payment instruction")
	}

	return encoder.Close()
}

type discardLogger struct{}

func (discardLogger) Debugf(format string, args ...interface{}) {}
func (discardLogger) Infof(format string, args ...interface{})  {}
func (discardLogger) Warnf(format string, args ...interface{})  {}
