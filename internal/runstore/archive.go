package runstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"storefront-wizard/internal/model"
)

const (
	runFileName        = "run.json"
	storefrontFileName = "storefront.json"
)

// RunMeta is what run.json holds for one finished generation run.
type RunMeta struct {
	model.GenerationRun
	ArchivedAt     string `json:"archived_at"`
	StorefrontPath string `json:"storefront_path,omitempty"`
}

func RunMetaPath(runDir string) string {
	return filepath.Join(runDir, runFileName)
}

func StorefrontPath(runDir string) string {
	return filepath.Join(runDir, storefrontFileName)
}

func LoadRunMeta(runDir string) (RunMeta, error) {
	var meta RunMeta
	if err := ReadJSON(RunMetaPath(runDir), &meta); err != nil {
		return RunMeta{}, err
	}
	return meta, nil
}

func LoadStorefront(runDir string) (model.Storefront, error) {
	var sf model.Storefront
	if err := ReadJSON(StorefrontPath(runDir), &sf); err != nil {
		return model.Storefront{}, err
	}
	return sf, nil
}

// Store archives terminal runs under Dir/<run id>/.
type Store struct {
	Dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir, now: time.Now}
}

func (s *Store) Archive(run model.GenerationRun, storefront *model.Storefront) error {
	if !run.Status.Terminal() {
		return fmt.Errorf("archive run %s: status %q is not terminal", run.ID, run.Status)
	}
	if strings.TrimSpace(run.ID) == "" || strings.ContainsAny(run.ID, `/\`) || strings.HasPrefix(run.ID, ".") {
		return fmt.Errorf("archive run: invalid run id %q", run.ID)
	}

	runDir := filepath.Join(s.Dir, run.ID)
	if err := Mkdir(runDir); err != nil {
		return err
	}
	lock, err := AcquireRunLock(runDir, run.ID)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	meta := RunMeta{
		GenerationRun: run,
		ArchivedAt:    s.now().UTC().Format(time.RFC3339),
	}
	if storefront != nil {
		if err := WriteJSON(StorefrontPath(runDir), storefront); err != nil {
			return err
		}
		meta.StorefrontPath = storefrontFileName
	}
	return WriteJSON(RunMetaPath(runDir), meta)
}

// ListRuns loads every archived run, oldest first. Directories without a
// readable run.json are skipped.
func ListRuns(runsDir string) ([]RunMeta, error) {
	dirs, err := ListRunDirs(runsDir)
	if err != nil {
		return nil, err
	}
	runs := make([]RunMeta, 0, len(dirs))
	for _, d := range dirs {
		meta, err := LoadRunMeta(d)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		runs = append(runs, meta)
	}
	return runs, nil
}
