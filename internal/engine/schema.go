package engine

// Request and response shapes are fixed structs validated at the boundary;
// violations surface as InputError before any model work happens.

const (
	ContentTypeText  = "text"
	ContentTypeURL   = "url"
	ContentTypeImage = "image"
)

type AnalyzeRequest struct {
	Text            string `json:"text"`
	ContentType     string `json:"content_type"`
	IncludeFeatures bool   `json:"include_features"`
}

type FeatureScore struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}

type AnalyzeResponse struct {
	Label      string         `json:"label"`
	Confidence float64        `json:"confidence"`
	TextLength int            `json:"text_length"`
	Language   string         `json:"language,omitempty"`
	Features   []FeatureScore `json:"features,omitempty"`
}

type BatchRequest struct {
	Items []string `json:"items"`
}

type BatchEntry struct {
	Index      int     `json:"index"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	TextLength int     `json:"text_length,omitempty"`
	Error      string  `json:"error,omitempty"`
}

type BatchResponse struct {
	Results   []BatchEntry `json:"results"`
	BatchSize int          `json:"batch_size"`
}
