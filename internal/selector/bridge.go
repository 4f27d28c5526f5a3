package selector

import (
	"context"
	"os"
	"path/filepath"
)

// Bridge is the host-provided capability probe the durable backend depends
// on. Initialization polls it for a bounded number of attempts and then
// proceeds regardless: the bridge may still work, and downstream statement
// failures are the real signal when it does not.
type Bridge interface {
	// Connected reports whether the bridge is present and connected.
	Connected(ctx context.Context) bool
}

// DirBridge is the default bridge: it considers the durable engine reachable
// once the data directory exists and accepts writes.
type DirBridge struct {
	Dir string
}

// Connected probes the data directory with a throwaway write.
func (b DirBridge) Connected(ctx context.Context) bool {
	if b.Dir == "" {
		return false
	}
	info, err := os.Stat(b.Dir)
	if err != nil || !info.IsDir() {
		return false
	}

	probe := filepath.Join(b.Dir, ".gymkeeper-probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return false
	}
	os.Remove(probe)
	return true
}
