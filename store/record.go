package store

// Record is the persisted unit of the vector index. Metadata always carries
// text, filename, slide_number, and document_type so every hit can be cited.
type Record struct {
	Id       string
	Values   []float32
	Metadata map[string]any
	Score    float32
}
