package storage

import (
	"context"
	"errors"
	"io"
	"net"
	"statcache/internal/providers"
	"statcache/internal/structures"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/atomic"
)

// State is the readiness of the store connection. Only StateConnected is
// usable, every other state routes operations to the fallback.
type State int32

const (
	StateDisconnected State = iota
	StateConnected
	StateConnecting
	StateDisconnecting
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateConnecting:
		return "connecting"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return "disconnected"
	}
}

type ConnectorInterface interface {
	Connect(ctx context.Context) bool
	IsConnected() bool
	State() State
	Client() *redis.Client
	Probe(ctx context.Context) bool
	ReportFailure(err error)
	Close() error
}

type ConnectionManager struct {
	conf   *structures.StoreConfig
	logger providers.Logger

	connectMu sync.Mutex
	clientMu  sync.RWMutex
	client    *redis.Client
	state     *atomic.Int32

	notConfiguredLogged *atomic.Bool
	newClient           func(opt *redis.Options) *redis.Client
}

// Connect is idempotent. It returns false without dialing when no endpoint
// is configured.
func (cm *ConnectionManager) Connect(ctx context.Context) bool {
	if cm.conf.URI == "" {
		if cm.notConfiguredLogged.CompareAndSwap(false, true) {
			cm.logger.Errorf(providers.TypeStore, "%s, using in-memory fallback", ErrNotConfigured)
		} else {
			cm.logger.Debugf(providers.TypeStore, "%s, using in-memory fallback", ErrNotConfigured)
		}
		return false
	}

	cm.connectMu.Lock()
	defer cm.connectMu.Unlock()

	if cm.IsConnected() {
		return true
	}

	cm.setState(StateConnecting)
	opt, err := cm.options()
	if err != nil {
		cm.setState(StateDisconnected)
		cm.logger.Errorf(providers.TypeStore, "%s: %s", ErrConnection, err)
		return false
	}

	client := cm.newClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		cm.setState(StateDisconnected)
		cm.logger.Errorf(providers.TypeStore, "%s: %s: %s", ErrConnection, opt.Addr, err)
		return false
	}

	cm.clientMu.Lock()
	old := cm.client
	cm.client = client
	cm.clientMu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	cm.setState(StateConnected)
	cm.logger.Infof(providers.TypeStore, "Store connected: %s db=%d", opt.Addr, opt.DB)
	return true
}

func (cm *ConnectionManager) options() (*redis.Options, error) {
	opt, err := redis.ParseURL(cm.conf.URI)
	if err != nil {
		return nil, err
	}
	if cm.conf.PoolSize > 0 {
		opt.PoolSize = cm.conf.PoolSize
	}
	if cm.conf.DialTimeout > 0 {
		opt.DialTimeout = cm.conf.DialTimeout
	}
	if cm.conf.ReadTimeout > 0 {
		opt.ReadTimeout = cm.conf.ReadTimeout
	}
	if cm.conf.WriteTimeout > 0 {
		opt.WriteTimeout = cm.conf.WriteTimeout
	}
	return opt, nil
}

func (cm *ConnectionManager) IsConnected() bool {
	return cm.State() == StateConnected
}

func (cm *ConnectionManager) State() State {
	return State(cm.state.Load())
}

func (cm *ConnectionManager) setState(s State) {
	cm.state.Store(int32(s))
}

func (cm *ConnectionManager) Client() *redis.Client {
	cm.clientMu.RLock()
	defer cm.clientMu.RUnlock()
	return cm.client
}

// Probe pings the live client and demotes the state when it does not answer.
func (cm *ConnectionManager) Probe(ctx context.Context) bool {
	client := cm.Client()
	if client == nil || !cm.IsConnected() {
		return false
	}
	if err := client.Ping(ctx).Err(); err != nil {
		if cm.state.CompareAndSwap(int32(StateConnected), int32(StateDisconnected)) {
			cm.logger.Warnf(providers.TypeStore, "Store ping failed, switching to fallback: %s", err)
		}
		return false
	}
	return true
}

// ReportFailure demotes a connected store after a transport error. Query
// level errors such as a bad command leave the state untouched.
func (cm *ConnectionManager) ReportFailure(err error) {
	if !isTransportError(err) {
		return
	}
	if cm.state.CompareAndSwap(int32(StateConnected), int32(StateDisconnected)) {
		cm.logger.Warnf(providers.TypeStore, "Store unreachable, switching to fallback: %s", err)
	}
}

func (cm *ConnectionManager) Close() error {
	cm.connectMu.Lock()
	defer cm.connectMu.Unlock()

	cm.setState(StateDisconnecting)
	cm.clientMu.Lock()
	client := cm.client
	cm.client = nil
	cm.clientMu.Unlock()

	var err error
	if client != nil {
		err = client.Close()
	}
	cm.setState(StateDisconnected)
	return err
}

func isTransportError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, redis.ErrClosed)
}

func NewConnectionManager(conf *structures.Config, logger providers.Logger) ConnectorInterface {
	return &ConnectionManager{
		conf:                &conf.Store,
		logger:              logger,
		state:               atomic.NewInt32(int32(StateDisconnected)),
		notConfiguredLogged: atomic.NewBool(false),
		newClient:           redis.NewClient,
	}
}
