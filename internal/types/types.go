package types

import (
	"fmt"
	"strings"
)

// Annotation is one labelled interval inside an audio clip. Offsets and
// durations are in seconds; SampleRate and ClipLength are constant across
// all annotations of the same clip.
type Annotation struct {
	Folder     string  `json:"folder"`
	InFile     string  `json:"in_file"`
	ClipLength float64 `json:"clip_length"`
	Channel    int     `json:"channel"`
	Offset     float64 `json:"offset"`
	Duration   float64 `json:"duration"`
	SampleRate int     `json:"sample_rate"`
	Label      string  `json:"manual_id"`
}

// End returns the end of the annotated interval in seconds.
func (a Annotation) End() float64 {
	return a.Offset + a.Duration
}

// AnnotationSet is an ordered collection of annotations covering one or
// more clips.
type AnnotationSet []Annotation

// ClipKey identifies one clip inside an annotation set.
type ClipKey struct {
	Folder string `json:"folder"`
	InFile string `json:"in_file"`
}

// Clips returns the distinct clips of the set in first-seen order.
func (s AnnotationSet) Clips() []ClipKey {
	seen := make(map[ClipKey]bool)
	var keys []ClipKey
	for _, a := range s {
		k := ClipKey{Folder: a.Folder, InFile: a.InFile}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

// Files returns the distinct clip filenames of the set in first-seen order.
func (s AnnotationSet) Files() []string {
	seen := make(map[string]bool)
	var files []string
	for _, a := range s {
		if !seen[a.InFile] {
			seen[a.InFile] = true
			files = append(files, a.InFile)
		}
	}
	return files
}

// Labels returns the distinct class labels of the set in first-seen order.
func (s AnnotationSet) Labels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, a := range s {
		if !seen[a.Label] {
			seen[a.Label] = true
			labels = append(labels, a.Label)
		}
	}
	return labels
}

// FilterClip returns the annotations belonging to one (folder, file) clip.
// Filename alone is not a clip identity; recordings from different sites
// routinely share names.
func (s AnnotationSet) FilterClip(key ClipKey) AnnotationSet {
	var out AnnotationSet
	for _, a := range s {
		if a.Folder == key.Folder && a.InFile == key.InFile {
			out = append(out, a)
		}
	}
	return out
}

// FilterFile returns the annotations whose clip filename equals file.
func (s AnnotationSet) FilterFile(file string) AnnotationSet {
	var out AnnotationSet
	for _, a := range s {
		if a.InFile == file {
			out = append(out, a)
		}
	}
	return out
}

// FilterFileStem returns the annotations whose clip filename starts with
// stem. Used to pair clips whose automated and manual tables disagree on
// the file extension.
func (s AnnotationSet) FilterFileStem(stem string) AnnotationSet {
	var out AnnotationSet
	for _, a := range s {
		if strings.HasPrefix(a.InFile, stem) {
			out = append(out, a)
		}
	}
	return out
}

// FilterLabel returns the annotations carrying the given class label.
func (s AnnotationSet) FilterLabel(label string) AnnotationSet {
	var out AnnotationSet
	for _, a := range s {
		if a.Label == label {
			out = append(out, a)
		}
	}
	return out
}

// FileStem strips the final '.'-delimited extension from a clip filename.
func FileStem(file string) string {
	idx := strings.LastIndex(file, ".")
	if idx <= 0 {
		return file
	}
	return file[:idx]
}

// ClipMeta holds the per-clip constants shared by every annotation of a
// clip.
type ClipMeta struct {
	Folder     string
	InFile     string
	ClipLength float64
	SampleRate int
}

// Meta validates the homogeneity precondition for a single-clip set and
// returns its shared metadata. ClipLength and SampleRate are read once and
// checked against every row instead of being re-derived per row.
func (s AnnotationSet) Meta() (ClipMeta, error) {
	if len(s) == 0 {
		return ClipMeta{}, fmt.Errorf("annotation set is empty")
	}
	m := ClipMeta{
		Folder:     s[0].Folder,
		InFile:     s[0].InFile,
		ClipLength: s[0].ClipLength,
		SampleRate: s[0].SampleRate,
	}
	for i, a := range s[1:] {
		if a.ClipLength != m.ClipLength || a.SampleRate != m.SampleRate {
			return ClipMeta{}, fmt.Errorf(
				"clip %q is not homogeneous: row %d has clip_length=%v sample_rate=%d, expected clip_length=%v sample_rate=%d",
				m.InFile, i+1, a.ClipLength, a.SampleRate, m.ClipLength, m.SampleRate)
		}
	}
	return m, nil
}

// ConfusionRow holds per-(clip, class) confusion counts and the derived
// ratio metrics. IoU-mode rows count labels; general-mode rows count
// seconds and additionally fill TrueNegative, Union, and IoU.
type ConfusionRow struct {
	Folder        string  `json:"folder"`
	InFile        string  `json:"in_file"`
	Label         string  `json:"manual_id"`
	TruePositive  float64 `json:"true_positive"`
	FalsePositive float64 `json:"false_positive"`
	FalseNegative float64 `json:"false_negative"`
	TrueNegative  float64 `json:"true_negative,omitempty"`
	Union         float64 `json:"union,omitempty"`
	Precision     float64 `json:"precision"`
	Recall        float64 `json:"recall"`
	F1            float64 `json:"f1"`
	IoU           float64 `json:"global_iou,omitempty"`
}

// GlobalMetrics holds micro-averaged metrics for a class or a whole
// dataset: confusion counts summed across rows first, ratios recomputed
// from the sums.
type GlobalMetrics struct {
	Label         string  `json:"manual_id"`
	TruePositive  float64 `json:"true_positive"`
	FalsePositive float64 `json:"false_positive"`
	FalseNegative float64 `json:"false_negative"`
	TrueNegative  float64 `json:"true_negative,omitempty"`
	Union         float64 `json:"union,omitempty"`
	Precision     float64 `json:"precision"`
	Recall        float64 `json:"recall"`
	F1            float64 `json:"f1"`
	IoU           float64 `json:"global_iou,omitempty"`
}
