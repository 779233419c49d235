package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the ~/.occ directory.
// All fields are pre-computed strings.
type Paths struct {
	Root    string // ~/.occ/
	DB      string // ~/.occ/occ.db
	DictDir string // ~/.occ/dicts/

	LogDir    string // ~/.occ/log/
	DaemonLog string // ~/.occ/log/daemon.log

	RunDir  string // ~/.occ/run/
	PIDFile string // ~/.occ/run/daemon.pid
}

// NewPaths constructs all resolved paths under base (normally the home directory).
func NewPaths(base string) *Paths {
	root := filepath.Join(base, ".occ")
	return &Paths{
		Root:    root,
		DB:      filepath.Join(root, "occ.db"),
		DictDir: filepath.Join(root, "dicts"),

		LogDir:    filepath.Join(root, "log"),
		DaemonLog: filepath.Join(root, "log", "daemon.log"),

		RunDir:  filepath.Join(root, "run"),
		PIDFile: filepath.Join(root, "run", "daemon.pid"),
	}
}

// EnsureDirs creates all subdirectories under ~/.occ. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes ephemeral runtime files.
// Called on clean daemon shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
}
