package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

// ExportData is the flattened form of a run for downstream tooling.
type ExportData struct {
	Meta      RunMetadata `json:"meta"`
	Snapshots []Snapshot  `json:"snapshots"`
}

// ExportJSON writes a run's metadata and snapshots as one indented
// JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, snaps []Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Meta: meta, Snapshots: snaps})
}

// ExportCSV writes one row per body per snapshot:
// time,name,x,y,z,vx,vy,vz.
func ExportCSV(w io.Writer, snaps []Snapshot) error {
	cw := csv.NewWriter(w)

	header := []string{"time", "name", "x", "y", "z", "vx", "vy", "vz"}
	if err := cw.Write(header); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, snap := range snaps {
		for _, b := range snap.Bodies {
			row := []string{
				f(snap.Time), b.Name,
				f(b.Position.X), f(b.Position.Y), f(b.Position.Z),
				f(b.Velocity.X), f(b.Velocity.Y), f(b.Velocity.Z),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
