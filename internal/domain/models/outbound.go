package models

// OutboundMessageRequest is a manual notification sent through the API.
type OutboundMessageRequest struct {
	To      string `json:"to" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Reply is the answer produced for a chat command.
type Reply struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Text renders the reply as a single WhatsApp message.
func (r Reply) Text() string {
	if r.Title == "" {
		return r.Message
	}
	return "*" + r.Title + "*\n" + r.Message
}
