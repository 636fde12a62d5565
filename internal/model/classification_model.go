package model

// LabelScore is one ranked entry of a classification result. Score is a
// confidence in [0,1].
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassificationResult is what the classifier backend produced for one sample
// image. Labels are sorted by descending score; only the top entries are
// kept (see gateway.TopLabels).
type ClassificationResult struct {
	SourceImage int          `json:"source_image"`
	Labels      []LabelScore `json:"labels"`
}
