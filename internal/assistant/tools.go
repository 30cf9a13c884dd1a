package assistant

// Tool identifies one of the client's feature panels. The set is closed:
// adding a tool means adding a variant here and extending every switch,
// which the compiler then checks.
type Tool int

const (
	ToolAssistant Tool = iota
	ToolWeather
	ToolPrediction
	ToolAnalysis
	ToolLibrary
)

// ToolInfo is the presentation metadata for a tool.
type ToolInfo struct {
	ID          string
	Title       string
	Description string
}

// Info returns the metadata for t.
func (t Tool) Info() ToolInfo {
	switch t {
	case ToolAssistant:
		return ToolInfo{
			ID:          "assistant",
			Title:       "AI Assistant",
			Description: "Get personalized farming advice and crop recommendations",
		}
	case ToolWeather:
		return ToolInfo{
			ID:          "weather",
			Title:       "Weather AI",
			Description: "Hyperlocal weather forecasts and agricultural insights",
		}
	case ToolPrediction:
		return ToolInfo{
			ID:          "prediction",
			Title:       "Crop Prediction AI",
			Description: "Predict yields, optimal harvest times, and market trends",
		}
	case ToolAnalysis:
		return ToolInfo{
			ID:          "analysis",
			Title:       "Crop Analysis",
			Description: "AI-powered crop health analysis from images",
		}
	case ToolLibrary:
		return ToolInfo{
			ID:          "library",
			Title:       "Knowledge Library",
			Description: "Browse farming guides, best practices, and research",
		}
	}
	return ToolInfo{ID: "unknown", Title: "Unknown Tool"}
}

// Tools lists every tool in display order.
func Tools() []Tool {
	return []Tool{ToolAssistant, ToolWeather, ToolPrediction, ToolAnalysis, ToolLibrary}
}

// ToolByID resolves a tool from its string id.
func ToolByID(id string) (Tool, bool) {
	for _, t := range Tools() {
		if t.Info().ID == id {
			return t, true
		}
	}
	return ToolAssistant, false
}
