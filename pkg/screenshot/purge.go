package screenshot

import (
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// orphanPattern matches files the manager could have written in an earlier run.
var orphanPattern = glob.MustCompile("*.{png,PNG}")

// PurgeOrphans deletes screenshot files left in the managed directories by
// earlier runs, i.e. matching files that neither queue references. It is a
// maintenance operation: failures are logged and skipped. It returns how many
// files were removed.
func (m *Manager) PurgeOrphans() int {
	m.mu.Lock()
	queued := make(map[string]struct{})
	dirs := make([]string, 0, len(m.queues))
	for _, q := range m.queues {
		for _, item := range q.items {
			queued[item] = struct{}{}
		}
		dirs = append(dirs, q.Dir())
	}
	m.mu.Unlock()

	removed := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			m.logAndContinue("scan for orphans", &FileError{Op: "read", Path: dir, Err: err})
			continue
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() || !orphanPattern.Match(entry.Name()) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if _, ok := queued[path]; ok {
				continue
			}
			if err := removeFile(path); err != nil {
				m.logAndContinue("purge orphan", err)
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		m.logger.Infof("purged %d orphaned screenshots", removed)
	}
	return removed
}
