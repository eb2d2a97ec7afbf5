package dto

// CreateReviewRequest - review creation payload (HTTP)
type CreateReviewRequest struct {
	TaskID  string `json:"task_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewResponse - review payload (HTTP)
type ReviewResponse struct {
	ID                 string `json:"id"`
	TaskID             string `json:"task_id"`
	ReviewerID         string `json:"reviewer_id"`
	ReviewedHandymanID string `json:"reviewed_handyman_id"`
	Rating             int    `json:"rating"`
	Comment            string `json:"comment,omitempty"`
	CreatedAt          string `json:"created_at"`
}
