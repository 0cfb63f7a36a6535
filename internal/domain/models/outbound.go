package models

// OutboundMessageRequest is a text message pushed to a farm contact.
type OutboundMessageRequest struct {
	To      string `json:"to" binding:"required"`
	Message string `json:"message" binding:"required"`
}
