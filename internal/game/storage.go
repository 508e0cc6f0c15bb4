package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"swordguys/internal/movement"
)

const (
	savesDirName = "saves"
	resumeFile   = "resume.json"
)

// ResumePoint is the actor's tile when a client last quit.
type ResumePoint struct {
	Map     string    `json:"map"`
	X       int       `json:"x"`
	Y       int       `json:"y"`
	SavedAt time.Time `json:"saved_at"`
}

// ResumePath is the default resume file location.
func ResumePath() string {
	return getAppSavePath(resumeFile)
}

// LoadResumePoint reads path. A missing file is not an error and yields nil.
func LoadResumePoint(path string) (*ResumePoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}

	var p ResumePoint
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse resume file: %w", err)
	}
	return &p, nil
}

// SaveResumePoint writes p to path.
func SaveResumePoint(path string, p ResumePoint) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResumePoint records where the actor stands now.
func (s *Scene) ResumePoint() ResumePoint {
	t := s.controller.TilePosition()
	return ResumePoint{Map: s.layout.Name, X: t.X, Y: t.Y, SavedAt: time.Now()}
}

// ResumeFrom moves the actor to p if it was saved on this map and the tile
// is still walkable.
func (s *Scene) ResumeFrom(p *ResumePoint) bool {
	if p == nil || p.Map != s.layout.Name {
		return false
	}
	t := movement.Tile{X: p.X, Y: p.Y}
	if !s.passability.Walkable(t) {
		return false
	}
	s.Resume(t)
	return true
}

// getAppSaveDir returns the local saves directory next to the app executable.
func getAppSaveDir() string {
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		// Under "go run" the executable lives in a temp build dir; prefer the
		// working directory so saves persist.
		if !isTempExeDir(exeDir) {
			dir := filepath.Join(exeDir, savesDirName)
			if err := os.MkdirAll(dir, 0755); err == nil {
				return dir
			}
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		dir := filepath.Join(cwd, savesDirName)
		_ = os.MkdirAll(dir, 0755)
		return dir
	}
	return savesDirName
}

func getAppSavePath(filename string) string {
	return filepath.Join(getAppSaveDir(), filename)
}

// isTempExeDir returns true when the executable directory looks like a Go temp build path.
func isTempExeDir(dir string) bool {
	clean := filepath.Clean(dir)
	if strings.Contains(clean, string(filepath.Separator)+"go-build") {
		return true
	}
	if strings.HasPrefix(clean, filepath.Clean(os.TempDir())+string(filepath.Separator)) {
		return true
	}
	return false
}
