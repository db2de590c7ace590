package handlers

type ScanURLRequest struct {
	URL string `json:"url" binding:"required"`
}

type ScanFileRequest struct {
	Hash string `json:"hash" binding:"required"`
}

type BreachCheckRequest struct {
	Account string `json:"account" binding:"required"`
}

type SummarizeRequest struct {
	Text string `json:"text" binding:"required"`
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}
