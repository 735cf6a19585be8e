package types

// ChunkRequest asks for an annotation table resegmented into fixed-length
// windows.
type ChunkRequest struct {
	Annotations AnnotationSet `json:"annotations" binding:"required"`
	ChunkLength float64       `json:"chunk_length" binding:"required"`
}

// StatisticsRequest asks for per-clip confusion rows comparing an
// automated table against a manual one. Mode is "IoU" or "general";
// Threshold only applies to IoU mode. ByClass restricts each comparison
// to one class label at a time.
type StatisticsRequest struct {
	Automated AnnotationSet `json:"automated" binding:"required"`
	Manual    AnnotationSet `json:"manual" binding:"required"`
	Mode      string        `json:"mode" binding:"required"`
	Threshold float64       `json:"threshold"`
	ByClass   bool          `json:"by_class"`
}

// ROCRequest asks for target/confidence alignment of one clip and the
// resulting ROC curve. Raw skips chunk pooling and aligns at the
// confidence curve's own resolution.
type ROCRequest struct {
	Manual      AnnotationSet `json:"manual" binding:"required"`
	Confidence  []float64     `json:"confidence" binding:"required"`
	ChunkLength float64       `json:"chunk_length"`
	Raw         bool          `json:"raw"`
}

// CatchRequest asks for per-annotation coverage of a manual table by an
// automated one.
type CatchRequest struct {
	Automated AnnotationSet `json:"automated" binding:"required"`
	Manual    AnnotationSet `json:"manual" binding:"required"`
}

// DurationRequest asks for summary statistics of a table's durations.
type DurationRequest struct {
	Annotations AnnotationSet `json:"annotations" binding:"required"`
}
