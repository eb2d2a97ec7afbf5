package dto

// CreateTaskRequest - task creation payload (HTTP)
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Budget      float64 `json:"budget"`
	Deadline    string  `json:"deadline"` // RFC3339
}

// TaskResponse - task payload (HTTP)
type TaskResponse struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Address            string  `json:"address"`
	Budget             float64 `json:"budget"`
	Deadline           string  `json:"deadline"`
	Status             string  `json:"status"`
	CustomerID         string  `json:"customer_id"`
	AssignedHandymanID *string `json:"assigned_handyman_id,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}
