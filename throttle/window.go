package throttle

import (
	"context"
	"strconv"
	"time"

	"github.com/daddykotex/pdf-edit-bulk/db/kvdb"
)

// KVWindow is a fixed-window counter kept in a key-value store, so several
// server processes share one limit per client.
type KVWindow struct {
	KV     kvdb.Client
	Group  string
	Limit  int
	Window time.Duration
}

func (w *KVWindow) Allow(ctx context.Context, key string, now time.Time) (bool, error) {
	slot := now.UnixNano() / int64(w.Window)
	n, err := w.KV.Incr(ctx, w.windowKey(key, slot), w.Window)
	if err != nil {
		return false, err
	}
	return n <= int64(w.Limit), nil
}

func (w *KVWindow) windowKey(key string, slot int64) string {
	return "throttle:" + w.Group + ":" + key + ":" + strconv.FormatInt(slot, 10)
}
