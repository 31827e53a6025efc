package types

// ProblemInfo is what the model extracts from the primary screenshots.
type ProblemInfo struct {
	ProblemStatement   string   `json:"problem_statement"`
	Context            string   `json:"context"`
	SuggestedResponses []string `json:"suggested_responses"`
	Reasoning          string   `json:"reasoning"`
}

// Solution is the model's answer to a problem, or its revision after debugging.
type Solution struct {
	Code               string   `json:"code"`
	ProblemStatement   string   `json:"problem_statement"`
	Context            string   `json:"context"`
	SuggestedResponses []string `json:"suggested_responses"`
	Reasoning          string   `json:"reasoning"`
}

// SolutionResponse is the JSON envelope the model is asked to return.
type SolutionResponse struct {
	Solution Solution `json:"solution"`
}

// Analysis is a free-form answer about a single image or audio clip.
type Analysis struct {
	Text string `json:"text"`
	// Timestamp is Unix milliseconds when the answer was produced.
	Timestamp int64 `json:"timestamp"`
}
