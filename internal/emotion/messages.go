package emotion

// DefaultSupportMessage is shown for labels without a dedicated message.
const DefaultSupportMessage = "Stay positive!"

// SupportMessage returns the contextual hint shown after a detection.
func SupportMessage(l Label) string {
	switch l {
	case Sad:
		return "It seems you're feeling sad. Would you like to talk to someone or try a calming activity?"
	case Angry:
		return "You look angry. Try taking a deep breath. Inhale slowly for 4 seconds."
	case Happy:
		return "You look happy! Spread positivity and connect with others."
	case Fear:
		return "You seem anxious. Try grounding yourself by focusing on breathing."
	case Neutral:
		return "You seem calm and balanced. A great time for meaningful conversations."
	case Surprise:
		return "That's surprising! Want to share what happened?"
	case Disgust:
		return "You seem uncomfortable. Take a moment and relax."
	default:
		return DefaultSupportMessage
	}
}

// SystemPrompt returns the AI companion persona for a label. Unknown labels
// get the neutral persona.
func SystemPrompt(l Label) string {
	switch l {
	case Sad:
		return "You are a supportive, empathetic AI companion. Respond with kindness and understanding. Help the user process their feelings in a healthy way. Be gentle and patient."
	case Angry:
		return "You are a calm and grounding AI companion. Respond in a peaceful, understanding tone. Help the user feel heard without escalating their emotions. Be patient and non-judgmental."
	case Happy:
		return "You are an energetic and positive AI companion. Match the user's enthusiasm and share in their joy. Be upbeat and encouraging."
	case Fear:
		return "You are a calming, reassuring AI companion. Help reduce anxiety with gentle words. Be supportive and help the user feel safe."
	case Surprise:
		return "You are an enthusiastic but gentle AI companion. Acknowledge the surprising element with interest but keep the tone balanced."
	case Disgust:
		return "You are a non-judgmental, understanding AI companion. Acknowledge the user's feelings without judgment. Help them process their emotions calmly."
	default:
		return "You are a friendly conversational AI companion. Have natural, warm conversations. Be personable and engaging."
	}
}

var defaultResponses = []string{
	"I'm here for you.",
	"Tell me more.",
	"How does that make you feel?",
	"I understand.",
	"That's interesting.",
	"Go on...",
	"I'm listening.",
}

// CannedResponses returns the scripted replies for a label, falling back to
// a generic list. The returned slice must not be modified.
func CannedResponses(l Label) []string {
	switch l {
	case Sad:
		return []string{
			"I'm here for you.",
			"Do you want to talk about it?",
			"It's okay to feel this way.",
			"I'm listening.",
			"Take your time, I'm here.",
			"Things will get better.",
			"You don't have to face this alone.",
		}
	case Angry:
		return []string{
			"I understand you're upset.",
			"Take a deep breath.",
			"It's okay to feel angry.",
			"I'm here to listen.",
			"Would you like to talk about it?",
			"Let's work through this together.",
			"Your feelings are valid.",
		}
	case Happy:
		return []string{
			"That's amazing!",
			"I love that energy!",
			"Tell me more!",
			"That's wonderful!",
			"I'm so happy for you!",
			"That's great news!",
			"Your happiness is contagious!",
		}
	case Fear:
		return []string{
			"I'm here with you.",
			"Take slow, deep breaths.",
			"You're safe here.",
			"One step at a time.",
			"I'm here to support you.",
			"You've got this.",
			"It's okay to feel afraid.",
		}
	case Neutral:
		return []string{
			"I see.",
			"Tell me more.",
			"That's interesting.",
			"Go on...",
			"I'm listening.",
			"What else is on your mind?",
			"How do you feel about that?",
		}
	case Surprise:
		return []string{
			"Wow, that's unexpected!",
			"Tell me more about that!",
			"That's incredible!",
			"How did that happen?",
			"That's quite surprising!",
			"I'd love to hear more!",
			"What happened next?",
		}
	case Disgust:
		return []string{
			"I understand that feeling.",
			"That's completely valid.",
			"I'm here to listen.",
			"Do you want to talk about it?",
			"It's okay to feel that way.",
			"Take your time.",
			"Would you like to share more?",
		}
	default:
		return defaultResponses
	}
}
