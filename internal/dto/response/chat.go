package response

type ChatResponse struct {
	Reply       string   `json:"reply"`
	Intent      string   `json:"intent"`
	Suggestions []string `json:"suggestions,omitempty"`
}
