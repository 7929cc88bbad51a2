package models

// ModelInfo describes one entry of the model catalog.
type ModelInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Catalog is the body returned by GET /api/models.
type Catalog struct {
	Models []ModelInfo `json:"models" yaml:"models"`
}

// HealthReport is the body returned by GET /api/health.
type HealthReport struct {
	Status          string   `json:"status" yaml:"status"`
	ModelsLoaded    int      `json:"models_loaded" yaml:"models_loaded"`
	AvailableModels []string `json:"available_models" yaml:"available_models"`
}

// ErrorBody is the JSON shape of a failed request.
type ErrorBody struct {
	Error string `json:"error"`
}
