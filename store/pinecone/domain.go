package pinecone

type indexModel struct {
	Name      string     `json:"name"`
	Dimension int        `json:"dimension"`
	Metric    string     `json:"metric"`
	Host      string     `json:"host,omitempty"`
	Spec      *indexSpec `json:"spec,omitempty"`
}

type indexSpec struct {
	Serverless *serverlessSpec `json:"serverless,omitempty"`
}

type serverlessSpec struct {
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
}

type vector struct {
	Id       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors []vector `json:"vectors"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeValues   bool      `json:"includeValues"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []match `json:"matches"`
}

type match struct {
	Id       string         `json:"id"`
	Score    float32        `json:"score"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata"`
}
