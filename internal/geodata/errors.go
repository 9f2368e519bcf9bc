package geodata

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaResolution matches any *SchemaResolutionError via errors.Is.
var ErrSchemaResolution = errors.New("schema resolution failed")

// SchemaResolutionError indicates the latitude and/or longitude column could
// not be found in a table.
type SchemaResolutionError struct {
	Table string
	// Columns is the header that was searched.
	Columns []string
	// Missing lists the unresolved logical fields.
	Missing []string
}

func (e *SchemaResolutionError) Error() string {
	what := strings.Join(e.Missing, " and ")
	if what == "" {
		what = "latitude/longitude"
	}
	if e.Table != "" {
		return fmt.Sprintf("%s: no %s column found among columns %q", e.Table, what, e.Columns)
	}
	return fmt.Sprintf("no %s column found among columns %q", what, e.Columns)
}

func (e *SchemaResolutionError) Is(target error) bool { return target == ErrSchemaResolution }
