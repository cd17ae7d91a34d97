package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const sessionFileName = "session.json"

// Session is the presentation layer's notion of the active project. It lives next to
// the database so that pointing at another database home also switches sessions.
//
// It is "best effort": a missing or corrupted file means no active project.
type Session struct {
	Version int `json:"version"`

	ProjectID   int64  `json:"projectId,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
}

// Active reports whether a project is selected.
func (s *Session) Active() bool {
	return s != nil && s.ProjectID > 0
}

// Clear drops the active project.
func (s *Session) Clear() {
	s.ProjectID = 0
	s.ProjectName = ""
}

func sessionPath(dir string) string {
	return filepath.Join(dir, sessionFileName)
}

func LoadSession(dir string) (*Session, error) {
	if strings.TrimSpace(dir) == "" {
		return &Session{Version: 1}, nil
	}
	b, err := os.ReadFile(sessionPath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Session{Version: 1}, nil
		}
		return nil, err
	}
	var st Session
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted: treat as missing.
		return &Session{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func SaveSession(dir string, st *Session) error {
	if st == nil || strings.TrimSpace(dir) == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "session.json.*.tmp", sessionPath(dir), append(b, '\n'), 0o644)
}
