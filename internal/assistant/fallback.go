package assistant

import (
	"math/rand"
	"strings"
)

// OfflineMarker suffixes every locally synthesized chat reply so the user
// can tell it apart from a live answer.
const OfflineMarker = " (Offline Mode)"

// DemoModeBanner is the short human-readable notice shown with an
// offline-synthesized login or registration.
const DemoModeBanner = "Demo Mode - Backend not running"

// cannedAnswer pairs a keyword with its fixed fallback reply. Matching is a
// case-insensitive substring check in declaration order, so a message
// containing several keywords gets the earliest one's answer.
type cannedAnswer struct {
	keyword string
	answer  string
}

var cannedAnswers = []cannedAnswer{
	{"tomato", "Based on common tomato issues, this could be blight, nutrient deficiency, or pest damage. Check for dark spots (blight), yellowing leaves (nitrogen deficiency), or small holes (pest damage). Ensure proper watering and consider organic fungicides."},
	{"corn", "For corn, I recommend a balanced fertilizer with higher nitrogen content during early growth (like 16-16-8), then switch to lower nitrogen, higher phosphorus during tasseling. Apply 1-2 pounds per 100 square feet."},
	{"wheat", "Wheat is typically ready for harvest when the grain moisture content is 12-14%. Look for golden color, hard kernels when pressed with fingernail, and dry stems. This usually occurs 30-35 days after flowering."},
	{"fertilizer", "Choose fertilizers based on soil testing results. Generally, use higher nitrogen for leafy growth, phosphorus for root development, and potassium for overall plant health. Organic options include compost, manure, and bone meal."},
	{"pest", "Integrated Pest Management (IPM) is most effective. Use beneficial insects, crop rotation, companion planting, and targeted organic pesticides only when necessary. Regular monitoring helps catch problems early."},
}

var genericAnswers = []string{
	"That's an interesting question! For specific crop issues, I'd recommend consulting with your local agricultural extension office. In the meantime, ensure proper watering, soil nutrition, and pest monitoring.",
	"Based on general farming practices, regular soil testing, proper crop rotation, and integrated pest management are key to healthy crops. Could you provide more specific details about your situation?",
	"Great question! Successful farming depends on many factors including soil health, weather conditions, and proper timing. Consider factors like your local climate zone and soil type for the best results.",
}

// synthesizeChatReply produces the offline substitute for a chat answer:
// the first keyword hit's canned reply, or a uniform pick from the three
// generic answers. Every reply carries the offline marker.
func synthesizeChatReply(message string, rng *rand.Rand) string {
	lower := strings.ToLower(message)

	for _, ca := range cannedAnswers {
		if strings.Contains(lower, ca.keyword) {
			return ca.answer + OfflineMarker
		}
	}

	return genericAnswers[rng.Intn(len(genericAnswers))] + OfflineMarker
}
