package project

import (
	"time"

	"github.com/KaramelBytes/poimap-cli/internal/geodata"
)

// DatasetEntry holds metadata for a dataset added to a project. Its points
// live in the project's points.db under the same ID.
type DatasetEntry struct {
	ID      string                 `json:"id"`
	Path    string                 `json:"path"`
	Name    string                 `json:"name"`
	Label   string                 `json:"label"`
	Mapping geodata.ColumnMapping  `json:"mapping"`
	Stats   geodata.NormalizeStats `json:"stats"`
	Center  *geodata.Coordinates   `json:"center,omitempty"`
	Points  int                    `json:"points"`
	AddedAt time.Time              `json:"added_at"`
}

// DisplayName is the label if set, otherwise the file name.
func (e *DatasetEntry) DisplayName() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Name
}
