package geodata

// Field is one of the logical roles the resolver maps onto raw columns.
type Field string

const (
	FieldLatitude  Field = "latitude"
	FieldLongitude Field = "longitude"
	FieldCost      Field = "cost"
	FieldName      Field = "name"
)

// Fields lists the logical fields in resolution order.
var Fields = []Field{FieldLatitude, FieldLongitude, FieldCost, FieldName}

// FieldCandidates holds, per logical field, the accepted raw header variants.
// Order matters: earlier entries win.
type FieldCandidates struct {
	Latitude  []string `json:"latitude" yaml:"latitude"`
	Longitude []string `json:"longitude" yaml:"longitude"`
	Cost      []string `json:"cost" yaml:"cost"`
	Name      []string `json:"name" yaml:"name"`
}

func defaultCandidates() FieldCandidates {
	return FieldCandidates{
		Latitude:  []string{"lat", "latitude", "Latidute", "Lat", "LATITUDE"},
		Longitude: []string{"LON", "lon", "lONGITUDE", "Longitude", "lng", "Long"},
		Cost:      []string{"custo", "cost", "preço", "preco", "price", "valor", "valor_total"},
		Name:      []string{"nome", "descricao", "titulo", "name", "title", "local", "place"},
	}
}

// DefaultCandidates returns a fresh copy of the built-in candidate lists.
func DefaultCandidates() FieldCandidates {
	return defaultCandidates()
}

// WithDefaults fills nil lists with the built-in ones. An empty, non-nil list
// is kept as is and disables the field.
func (c FieldCandidates) WithDefaults() FieldCandidates {
	d := defaultCandidates()
	return FieldCandidates{
		Latitude:  pickStrings(c.Latitude, d.Latitude),
		Longitude: pickStrings(c.Longitude, d.Longitude),
		Cost:      pickStrings(c.Cost, d.Cost),
		Name:      pickStrings(c.Name, d.Name),
	}
}

// For returns the candidate list of a field.
func (c FieldCandidates) For(f Field) []string {
	switch f {
	case FieldLatitude:
		return c.Latitude
	case FieldLongitude:
		return c.Longitude
	case FieldCost:
		return c.Cost
	case FieldName:
		return c.Name
	}
	return nil
}

func pickStrings(custom, fallback []string) []string {
	if custom == nil {
		return cloneStrings(fallback)
	}
	return cloneStrings(custom)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
