package geodata

// Coordinates is a map position.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Center returns the mean latitude and longitude of the dataset. ok is false
// for an empty dataset.
func Center(ds *Dataset) (c Coordinates, ok bool) {
	if ds == nil || len(ds.Points) == 0 {
		return Coordinates{}, false
	}
	var sumLat, sumLon float64
	for _, p := range ds.Points {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	n := float64(len(ds.Points))
	return Coordinates{Lat: sumLat / n, Lon: sumLon / n}, true
}
