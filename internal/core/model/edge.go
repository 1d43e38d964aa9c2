package model

// SimilarityEdge is a directed relation between two incidents whose
// edge-preset similarity cleared the build threshold. SourceID < TargetID
// always holds (canonical direction), and the target's normalized date is
// never before the source's.
type SimilarityEdge struct {
	SourceID int64   `json:"source_event_id"`
	TargetID int64   `json:"target_event_id"`
	Score    float64 `json:"similarity_score"`
}
