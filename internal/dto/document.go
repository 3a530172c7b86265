package dto

type DocumentResponse struct {
	ID            string `json:"id"`
	Type          string `json:"doc_type"`
	FileName      string `json:"file_name"`
	FileSize      int64  `json:"file_size"`
	FileURL       string `json:"file_url"`
	Summary       string `json:"summary,omitempty"`
	ExtractedText string `json:"extracted_text,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type ProcessDocumentResponse struct {
	Document     DocumentResponse      `json:"document"`
	Currency     string                `json:"currency"`
	Transactions []TransactionResponse `json:"transactions"`
}
