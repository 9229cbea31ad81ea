package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace folder names
const (
	BackupsDir  = "backups"  // segment snapshots
	SegmentsDir = "segments" // operator's edited copies
	HostsDir    = "hosts"    // host inventory snapshots
)

// Workspace is the resolved folder layout of one installation
type Workspace struct {
	Root string
}

// Backups returns the segment snapshot folder
func (w Workspace) Backups() string { return filepath.Join(w.Root, BackupsDir) }

// Segments returns the folder for edited segment files
func (w Workspace) Segments() string { return filepath.Join(w.Root, SegmentsDir) }

// Hosts returns the host snapshot folder
func (w Workspace) Hosts() string { return filepath.Join(w.Root, HostsDir) }

// Ensure creates the missing workspace folders and returns their names
func (w Workspace) Ensure() ([]string, error) {
	var created []string
	for _, name := range []string{BackupsDir, SegmentsDir, HostsDir} {
		dir := filepath.Join(w.Root, name)
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return created, fmt.Errorf("failed to create %s folder: %w", name, err)
		}
		created = append(created, name)
	}
	return created, nil
}
