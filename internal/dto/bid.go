package dto

// PlaceBidRequest - bid placement payload (HTTP)
type PlaceBidRequest struct {
	TaskID string  `json:"task_id"`
	Amount float64 `json:"amount"`
}

// BidResponse - bid payload (HTTP)
type BidResponse struct {
	ID         string  `json:"id"`
	TaskID     string  `json:"task_id"`
	HandymanID string  `json:"handyman_id"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
}
