package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	Trace []TracePoint `json:"trace,omitempty"`
}

// ExportJSON writes a run's metadata and convergence trace as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, trace []TracePoint) error {
	data := ExportData{
		RunMetadata: *meta,
		Trace:       trace,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
