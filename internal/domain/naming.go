package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// File and directory names inside a project.
const (
	StoreDirName      = ".cursor-kanban"
	TasksFileName     = "tasks.json"
	LockFileName      = ".lock"
	ConfigFileName    = "config.toml"
	ProjectsFileName  = "projects.toml"
	GlobalLogFileName = "kanban.log"
	AppName           = "cursor-kanban"
)

// StoreDir returns the data directory for a project root.
func StoreDir(root string) string {
	return filepath.Join(root, StoreDirName)
}

// TasksStorePath returns the path to the tasks.json file.
func TasksStorePath(storeDir string) string {
	return filepath.Join(storeDir, TasksFileName)
}

// LockPath returns the path to the advisory lock marker.
func LockPath(storeDir string) string {
	return filepath.Join(storeDir, LockFileName)
}

// ConfigPath returns the path to the project config file.
func ConfigPath(storeDir string) string {
	return filepath.Join(storeDir, ConfigFileName)
}

// LogDir returns the log directory.
func LogDir(storeDir string) string {
	return filepath.Join(storeDir, "logs")
}

// GlobalLogPath returns the path to the log file.
func GlobalLogPath(storeDir string) string {
	return filepath.Join(LogDir(storeDir), GlobalLogFileName)
}

// GlobalConfigDir returns the global config directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppName)
}

// ProjectsFilePath returns the known-projects file under the global config directory.
func ProjectsFilePath(globalDir string) string {
	return filepath.Join(globalDir, ProjectsFileName)
}

// ProjectID derives a stable identifier from a project root:
// the first 12 hex characters of the SHA-256 of the cleaned absolute path.
func ProjectID(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return hex.EncodeToString(sum[:])[:12]
}
