package dto

// SendMessageRequest - chat message payload (HTTP)
type SendMessageRequest struct {
	TaskID string `json:"task_id"`
	Body   string `json:"body"`
}

// ChatMessageResponse - chat message payload (HTTP)
type ChatMessageResponse struct {
	ID             string `json:"id"`
	TaskID         string `json:"task_id"`
	SenderID       string `json:"sender_id"`
	SenderRole     string `json:"sender_role"`
	Body           string `json:"body"`
	SentAt         string `json:"sent_at"`
	ReadByCustomer bool   `json:"read_by_customer"`
	ReadByHandyman bool   `json:"read_by_handyman"`
}

// UnreadCountsResponse maps task id to the caller's unread message count.
// Tasks with nothing unread are omitted.
type UnreadCountsResponse map[string]int64
