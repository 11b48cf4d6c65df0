// Package emotion defines the closed set of emotion labels shared by logging,
// matching and response selection, together with the per-label text tables.
package emotion

import (
	"errors"
	"strings"
)

// Label is one of the fixed emotion labels.
type Label string

const (
	Sad      Label = "sad"
	Angry    Label = "angry"
	Happy    Label = "happy"
	Fear     Label = "fear"
	Neutral  Label = "neutral"
	Surprise Label = "surprise"
	Disgust  Label = "disgust"
)

// ErrUnknownLabel is returned by Parse for values outside the label set.
var ErrUnknownLabel = errors.New("unknown emotion label")

var all = []Label{Sad, Angry, Happy, Fear, Neutral, Surprise, Disgust}

// All returns every label in a stable order.
func All() []Label {
	out := make([]Label, len(all))
	copy(out, all)
	return out
}

// Parse normalizes raw input (case, surrounding spaces) and validates it
// against the label set. Classifier aliases such as "fearful" are folded
// onto their canonical label.
func Parse(raw string) (Label, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch normalized {
	case "fearful", "scared":
		normalized = string(Fear)
	case "surprised":
		normalized = string(Surprise)
	case "disgusted":
		normalized = string(Disgust)
	case "anger":
		normalized = string(Angry)
	case "happiness", "joy":
		normalized = string(Happy)
	case "sadness":
		normalized = string(Sad)
	}

	label := Label(normalized)
	if !label.Valid() {
		return "", ErrUnknownLabel
	}
	return label, nil
}

// Valid reports whether l belongs to the label set.
func (l Label) Valid() bool {
	switch l {
	case Sad, Angry, Happy, Fear, Neutral, Surprise, Disgust:
		return true
	default:
		return false
	}
}

func (l Label) String() string { return string(l) }
