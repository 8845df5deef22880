// Package geo builds the optional map overlay: one GeoJSON point per located
// observation, tagged with its match flag.
package geo

import (
	"encoding/json"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"lookalike/internal/dataset"
	dErrors "lookalike/pkg/domain-errors"
)

// Overlay is the map panel: the point collection plus per-class counts.
type Overlay struct {
	Collection *geojson.FeatureCollection
	Located    int
	Matches    int
}

// MarshalJSON emits the bare FeatureCollection.
func (o *Overlay) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Collection)
}

// Build returns the overlay for ds. Datasets without configured or present
// coordinate columns fail with schema_mismatch. Rows with an empty coordinate
// are skipped; out-of-range coordinates fail with invalid_row.
func Build(ds *dataset.Dataset) (*Overlay, error) {
	if err := ds.RequireLocation(); err != nil {
		return nil, err
	}

	bounds := geom.NewBounds(geom.XY)
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	out := &Overlay{Collection: fc}

	for i, o := range ds.Observations() {
		if !o.HasLocation {
			continue
		}
		if o.Latitude < -90 || o.Latitude > 90 || o.Longitude < -180 || o.Longitude > 180 {
			// +2 matches the loader: header line plus 1-based numbering.
			return nil, dErrors.Newf(dErrors.CodeInvalidRow,
				"dataset %s line %d: coordinate (%g, %g) out of range", ds.Name(), i+2, o.Latitude, o.Longitude)
		}

		pt := geom.NewPointFlat(geom.XY, []float64{o.Longitude, o.Latitude})
		bounds.Extend(pt)
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: pt,
			Properties: map[string]interface{}{
				"match": o.MatchFlag(),
				"pc1":   o.PC1,
				"pc2":   o.PC2,
			},
		})
		out.Located++
		if o.Match {
			out.Matches++
		}
	}
	if out.Located > 0 {
		fc.BBox = bounds
	}
	return out, nil
}
