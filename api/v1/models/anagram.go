package models

// AnagramRequest represents a generate-anagram request
type AnagramRequest struct {
	UserName  *string `json:"user_name" validate:"required,username"`
	InputText *string `json:"input_text" validate:"required"`
}

// AnagramResponse represents a successful generation
type AnagramResponse struct {
	Status   string   `json:"status"`
	Anagrams []string `json:"anagrams"`
}

// DetailResponse represents an error body; Detail is either a message or a
// list of ValidationIssue
type DetailResponse struct {
	Detail interface{} `json:"detail"`
}

// ValidationIssue describes one rejected request field
type ValidationIssue struct {
	Loc  []interface{} `json:"loc"`
	Msg  string        `json:"msg"`
	Type string        `json:"type"`
}

// StreamResponse is one reply frame on the websocket transport
type StreamResponse struct {
	Status   string      `json:"status"`
	Anagrams []string    `json:"anagrams,omitempty"`
	Code     int         `json:"code,omitempty"`
	Detail   interface{} `json:"detail,omitempty"`
}
