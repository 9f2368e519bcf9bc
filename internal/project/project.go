package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/poimap-cli/internal/geodata"
	"github.com/KaramelBytes/poimap-cli/internal/mapview"
	"github.com/KaramelBytes/poimap-cli/internal/pipeline"
	"github.com/KaramelBytes/poimap-cli/internal/store"
	"github.com/KaramelBytes/poimap-cli/internal/utils"
)

const (
	projectFileName = utils.ProjectFile
	pointsFileName  = "points.db"
)

// Project groups datasets shown together on one map, persisted on disk.
type Project struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Datasets    []*DatasetEntry `json:"datasets"`
	Config      *ProjectConfig  `json:"config"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Not serialized: on-disk location of the project.json
	rootDir string `json:"-"`
}

type ProjectConfig struct {
	Zoom int `json:"zoom,omitempty"`
}

// NewProject constructs an in-memory project. Call Save() to persist.
func NewProject(name, description, rootDir string) *Project {
	return &Project{
		Name:        name,
		Description: description,
		Datasets:    []*DatasetEntry{},
		Config:      &ProjectConfig{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		rootDir:     rootDir,
	}
}

// LoadProject loads a project.json from the provided directory.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, projectFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("project not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	if p.Config == nil {
		p.Config = &ProjectConfig{}
	}
	p.rootDir = dir
	return &p, nil
}

// RootDir returns the on-disk project directory path.
func (p *Project) RootDir() string { return p.rootDir }

// StorePath is the SQLite file holding the project's points.
func (p *Project) StorePath() string { return filepath.Join(p.rootDir, pointsFileName) }

// Save writes project.json using atomic write.
func (p *Project) Save() error {
	if p.rootDir == "" {
		return errors.New("project root directory not set")
	}
	if err := utils.EnsureDir(p.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	p.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(p)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(p.rootDir, projectFileName), data)
}

func (p *Project) openStore() (*store.DB, error) {
	if p.rootDir == "" {
		return nil, errors.New("project root directory not set")
	}
	return store.Open(p.StorePath())
}

// AddDataset normalizes the file at path, stores its points and saves
// project.json. An empty label falls back to the file name. When project.json
// cannot be written the stored points are deleted again.
func (p *Project) AddDataset(ctx context.Context, path, label string, opt pipeline.Options) (*DatasetEntry, error) {
	label = strings.TrimSpace(label)
	if label != "" && p.labelInUse(label) {
		return nil, fmt.Errorf("dataset label %q already in project", label)
	}
	res, err := pipeline.Process(ctx, path, opt)
	if err != nil {
		return nil, err
	}
	db, err := p.openStore()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	id, err := db.SaveDataset(ctx, res.Dataset)
	if err != nil {
		return nil, fmt.Errorf("store dataset: %w", err)
	}

	e := &DatasetEntry{
		ID:      id,
		Path:    path,
		Name:    filepath.Base(path),
		Label:   label,
		Mapping: res.Dataset.Mapping,
		Stats:   res.Dataset.Stats,
		Points:  res.Dataset.Len(),
		AddedAt: time.Now(),
	}
	if c, ok := geodata.Center(res.Dataset); ok {
		e.Center = &c
	}
	p.Datasets = append(p.Datasets, e)
	if err := p.Save(); err != nil {
		p.Datasets = p.Datasets[:len(p.Datasets)-1]
		if derr := db.DeleteDataset(ctx, id); derr != nil {
			return nil, fmt.Errorf("save project: %w (stored dataset %s not rolled back: %v)", err, id, derr)
		}
		return nil, fmt.Errorf("save project: %w", err)
	}
	return e, nil
}

// labelInUse reports whether a dataset is already shown under label.
func (p *Project) labelInUse(label string) bool {
	for _, e := range p.Datasets {
		if e.DisplayName() == label {
			return true
		}
	}
	return false
}

// FindDataset looks a dataset up by ID, ID prefix, label or file name.
func (p *Project) FindDataset(key string) *DatasetEntry {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	for _, e := range p.Datasets {
		if e.ID == key || e.Label == key {
			return e
		}
	}
	var match *DatasetEntry
	for _, e := range p.Datasets {
		if strings.HasPrefix(e.ID, key) || (e.Label == "" && e.Name == key) {
			if match != nil {
				return nil
			}
			match = e
		}
	}
	return match
}

// RemoveDataset drops a dataset from project.json, saves it and then deletes
// the stored points. If saving fails the project is left unchanged.
func (p *Project) RemoveDataset(ctx context.Context, key string) (*DatasetEntry, error) {
	e := p.FindDataset(key)
	if e == nil {
		return nil, fmt.Errorf("dataset %q not found in project", key)
	}
	prev := p.Datasets
	kept := make([]*DatasetEntry, 0, len(prev))
	for _, cur := range prev {
		if cur != e {
			kept = append(kept, cur)
		}
	}
	p.Datasets = kept
	if err := p.Save(); err != nil {
		p.Datasets = prev
		return nil, fmt.Errorf("save project: %w", err)
	}

	db, err := p.openStore()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := db.DeleteDataset(ctx, e.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("delete points: %w", err)
	}
	return e, nil
}

// LoadDatasets reads every dataset's points from the store, in project order.
func (p *Project) LoadDatasets(ctx context.Context) ([]*geodata.Dataset, error) {
	db, err := p.openStore()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	out := make([]*geodata.Dataset, 0, len(p.Datasets))
	for _, e := range p.Datasets {
		ds, err := db.LoadDataset(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", e.DisplayName(), err)
		}
		ds.Name = e.DisplayName()
		out = append(out, ds)
	}
	return out, nil
}

// BuildView builds the map view with one layer per dataset.
func (p *Project) BuildView(ctx context.Context) (mapview.View, error) {
	if len(p.Datasets) == 0 {
		return mapview.View{}, errors.New("no datasets added to project")
	}
	datasets, err := p.LoadDatasets(ctx)
	if err != nil {
		return mapview.View{}, err
	}
	layers := make([]mapview.Layer, len(datasets))
	for i, ds := range datasets {
		layers[i] = mapview.BuildLayer(ds)
	}
	v := mapview.BuildView(layers...)
	if p.Config != nil && p.Config.Zoom > 0 {
		v.Zoom = p.Config.Zoom
	}
	return v, nil
}
