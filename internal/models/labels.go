package models

// Emotion and driver tags are an open vocabulary: the UI writes known tags
// but older entries or imports may carry anything. Label lookups are total
// and fall back to the raw tag.

var emotionLabels = map[string]string{
	"confident":  "Confident",
	"anxious":    "Anxious",
	"fomo":       "FOMO",
	"calm":       "Calm",
	"frustrated": "Frustrated",
	"hopeful":    "Hopeful",
	"fearful":    "Fearful",
}

var driverLabels = map[string]string{
	"news":     "News / headline",
	"chart":    "Chart pattern",
	"tip":      "Tip / recommendation",
	"earnings": "Earnings",
	"impulse":  "Impulse",
	"plan":     "Pre-made plan",
}

// EmotionLabel returns the display label for an emotion tag,
// defaulting to the raw tag when unmatched.
func EmotionLabel(tag string) string {
	if l, ok := emotionLabels[tag]; ok {
		return l
	}
	return tag
}

// DriverLabel returns the display label for a decision-driver tag,
// defaulting to the raw tag when unmatched.
func DriverLabel(tag string) string {
	if l, ok := driverLabels[tag]; ok {
		return l
	}
	return tag
}
