package session

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// loadSessionID returns the durable session identifier, creating and
// persisting one on first use. With no durable storage it falls back to a
// process-local identifier that does not survive a restart; push events from
// earlier runs are simply ignored in that mode.
func loadSessionID(ctx context.Context, kv *kvStore) (string, error) {
	if kv == nil {
		return localSessionID(), nil
	}

	value, ok, err := kv.Read(ctx, slotSessionID)
	if err != nil {
		return "", err
	}
	if ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), nil
	}

	id := uuid.NewString()
	if err := kv.Write(ctx, slotSessionID, id); err != nil {
		return "", err
	}
	return id, nil
}

func localSessionID() string {
	return fmt.Sprintf("local-%d-%06x", time.Now().UnixMilli(), rand.Intn(1<<24))
}
