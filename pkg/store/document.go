package store

// Document is a retrieved knowledge snippet handed to the RAG pipeline.
// It is owned by the retriever; downstream consumers treat it as read-only.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// Metadata keys populated by the knowledge base.
const (
	MetaSource   = "source"
	MetaCategory = "category"
)

// Source returns the document's origin, or empty if none was recorded.
func (d Document) Source() string {
	return d.Metadata[MetaSource]
}

// Category returns the knowledge category the document was seeded under.
func (d Document) Category() string {
	return d.Metadata[MetaCategory]
}
