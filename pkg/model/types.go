package model

// Document is the final output of the library: the stable metadata schema
// extracted from one .procreate container. Numeric fields default to zero
// rather than being omitted; optional fields marshal as JSON null when
// absent. A Document is built once per extraction and not mutated after
// being handed to the serialization boundary.
type Document struct {
	CanvasWidth  uint `json:"canvas_width"`
	CanvasHeight uint `json:"canvas_height"`
	DPI          uint `json:"dpi"`
	// Orientation is always one of "portrait", "landscape" or "unknown".
	Orientation string `json:"orientation"`
	LayerCount  uint   `json:"layer_count"`
	// TimeSpent is the recorded drawing time in seconds.
	TimeSpent    uint    `json:"time_spent"`
	ColorProfile *string `json:"color_profile"`
	Version      *string `json:"procreate_version"`
	CreatedAt    *int64  `json:"created_at"`
	UpdatedAt    *int64  `json:"updated_at"`
	// ThumbnailPath points at the extracted preview in the managed temp
	// directory, when the container carries one.
	ThumbnailPath *string `json:"thumbnail_path"`
	SourcePath    string  `json:"source_path"`
	// FileHash is the lowercase hex SHA-256 of the exact source bytes.
	FileHash string `json:"file_hash"`
}

// Embedding is the output of the vector command: a normalized image
// embedding produced by the external inference service.
type Embedding struct {
	Vector     []float64 `json:"vector"`
	SourcePath string    `json:"source_path"`
	Dimensions int       `json:"dimensions"`
}

// PurgeResult reports a temp-store garbage collection pass.
type PurgeResult struct {
	Removed int    `json:"removed"`
	TempDir string `json:"temp_dir"`
}
