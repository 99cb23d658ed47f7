package model

import "time"

// Document is an uploaded file persisted for the duration of one run.
type Document struct {
	ID           string
	Path         string
	OriginalName string
	Size         int64
	CreatedAt    time.Time
}

// AnalysisResult is returned to the caller of a successful upload.
type AnalysisResult struct {
	Status        string `json:"status"`
	Query         string `json:"query"`
	Analysis      string `json:"analysis"`
	FileProcessed string `json:"file_processed"`
}

const AnalysisStatusSuccess = "success"
