package dto

// PublishIngestDocumentMessage is the payload queued for the ingestion
// consumer. Exactly one of Content/Location is set.
type PublishIngestDocumentMessage struct {
	Namespace  string `json:"namespace"`
	DocumentId string `json:"document_id"`
	Filename   string `json:"filename"`
	Content    []byte `json:"content,omitempty"`
	Location   string `json:"location,omitempty"`
}
