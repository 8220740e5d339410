package types

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// AnalysisResult is returned by the image analysis endpoint. The model itself
// is a remote black box; only the result shape matters here.
type AnalysisResult struct {
	Type       string `json:"type"`
	Confidence string `json:"confidence"`
	Damage     string `json:"damage"`
	ImageURL   string `json:"image_url"`
}
