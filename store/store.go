package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"todo-app/model"
)

// DefaultKey is the fixed key the list is stored under.
const DefaultKey = "todo-list"

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// KV is the persistence capability: a single serialized blob per key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Options selects and configures a KV backend.
type Options struct {
	Backend string
	Dir     string
}

// Open returns the backend named by opts.Backend rooted at opts.Dir.
func Open(opts Options) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return &FileKV{Dir: opts.Dir}, nil
	case BackendSQLite:
		return OpenSQLite(SQLitePath(opts.Dir))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// Decode turns a persisted blob into a state. Absent or malformed data
// yields an empty state; it is never an error.
func Decode(data []byte) model.State {
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.NewState()
	}
	var state model.State
	if err := json.Unmarshal(data, &state); err != nil {
		return model.NewState()
	}
	if state.Items == nil {
		state.Items = []model.Item{}
	}
	return state
}

// Encode serializes the persisted part of the state as {"items": [...]}.
func Encode(state model.State) ([]byte, error) {
	if state.Items == nil {
		state.Items = []model.Item{}
	}
	return json.Marshal(state)
}

type recoverer interface {
	GetWithRecovery(ctx context.Context, key string) ([]byte, bool, string, error)
}

// Load reads and decodes the list stored under key. Read failures are
// logged and treated as "no prior state". The returned status is a
// user-facing note, set only when a corrupt blob had to be recovered.
func Load(ctx context.Context, kv KV, key string, logger *log.Logger) (model.State, string) {
	if logger == nil {
		logger = log.Default()
	}
	var (
		data   []byte
		ok     bool
		status string
		err    error
	)
	if r, isRecoverer := kv.(recoverer); isRecoverer {
		data, ok, status, err = r.GetWithRecovery(ctx, key)
	} else {
		data, ok, err = kv.Get(ctx, key)
	}
	if err != nil {
		logger.Warn("load failed, starting empty", "key", key, "err", err)
		return model.NewState(), ""
	}
	if !ok {
		logger.Debug("no persisted list", "key", key)
		return model.NewState(), status
	}
	if status != "" {
		logger.Warn(status, "key", key)
	}
	state := Decode(data)
	logger.Debug("loaded list", "key", key, "items", len(state.Items), "bytes", len(data))
	return state, status
}
