package project

import "fmt"

// Static catalog of values a project may hold. Shared with the frontend's
// option pickers, so anything a well-behaved client sends is in here.

var Slogans = []string{
	"Durable Objects are sweet and so are you",
	"I'd love to be in sync with you",
	"My code is bad, but at least I'm shipping",
	"Collab should be orange",
	"I'm not a designer, okay?",
}

var Emojis = []string{"🧡", "🛳️", "✨", "👨🏻‍🍳", "🦦", "💖", "💪", "🔥", "✌️", "⭐"}

var BackgroundColors = []string{"#E3F2FD", "#E0F2F1", "#EDE7F6", "#FFEBEE", "#FFF8E1"}

var ForegroundColors = []string{"#1A237E", "#1B5E20", "#880E4F", "#263238", "#4A148C"}

var TextSizes = []string{"small", "medium", "large"}

// MaxEmojis is the largest emoji selection a project may carry.
const MaxEmojis = 3

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// ValidateUpdate checks every field present in the update against the allowed
// values. Errors accumulate in section order so the caller sees all failures
// in one pass; absent fields are never checked.
func ValidateUpdate(update Update) []string {
	var errs []string

	if update.Slogan != nil && !contains(Slogans, *update.Slogan) {
		errs = append(errs, fmt.Sprintf("Invalid slogan: %s", *update.Slogan))
	}

	if update.Emojis != nil {
		if len(*update.Emojis) > MaxEmojis {
			errs = append(errs, fmt.Sprintf("Maximum of %d emojis allowed", MaxEmojis))
		}
		for _, emoji := range *update.Emojis {
			if !contains(Emojis, emoji) {
				errs = append(errs, fmt.Sprintf("Invalid emoji: %s", emoji))
			}
		}
	}

	if update.BackgroundColor != nil && !contains(BackgroundColors, *update.BackgroundColor) {
		errs = append(errs, fmt.Sprintf("Invalid background color: %s", *update.BackgroundColor))
	}

	if update.ForegroundColor != nil && !contains(ForegroundColors, *update.ForegroundColor) {
		errs = append(errs, fmt.Sprintf("Invalid foreground color: %s", *update.ForegroundColor))
	}

	if update.TextSize != nil && !contains(TextSizes, *update.TextSize) {
		errs = append(errs, fmt.Sprintf("Invalid text size: %s", *update.TextSize))
	}

	return errs
}
