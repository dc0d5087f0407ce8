package project

// Sections lists the lockable parts of a project document, in the order lock
// and validation checks run.
var Sections = []string{"slogan", "emojis", "backgroundColor", "foregroundColor", "textSize"}

// IsSection reports whether name is a known document section.
func IsSection(name string) bool {
	return contains(Sections, name)
}

// User is one active collaborator: the name doubles as the identity key.
type User struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CursorPosition is a user's last-known pointer location.
type CursorPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// State is the full shared project document, including who is active and
// which sections are locked. It is what every client renders.
type State struct {
	Slogan          string            `json:"slogan"`
	Emojis          []string          `json:"emojis"`
	BackgroundColor string            `json:"backgroundColor"`
	ForegroundColor string            `json:"foregroundColor"`
	TextSize        string            `json:"textSize"`
	ActiveUsers     []User            `json:"activeUsers"`
	SectionLocks    map[string]string `json:"sectionLocks"`
}

// Update is a partial document: nil means the field is untouched.
type Update struct {
	Slogan          *string   `json:"slogan,omitempty"`
	Emojis          *[]string `json:"emojis,omitempty"`
	BackgroundColor *string   `json:"backgroundColor,omitempty"`
	ForegroundColor *string   `json:"foregroundColor,omitempty"`
	TextSize        *string   `json:"textSize,omitempty"`
}

// DefaultState returns the document every fresh project starts with.
func DefaultState() State {
	return State{
		Slogan:          "Durable Objects are sweet and so are you",
		Emojis:          []string{},
		BackgroundColor: "#E3F2FD",
		ForegroundColor: "#1A237E",
		TextSize:        "medium",
		ActiveUsers:     []User{},
		SectionLocks:    map[string]string{},
	}
}

// merge applies the update field by field; later writes win per field.
func (s *State) merge(update Update) {
	if update.Slogan != nil {
		s.Slogan = *update.Slogan
	}
	if update.Emojis != nil {
		s.Emojis = append([]string{}, (*update.Emojis)...)
	}
	if update.BackgroundColor != nil {
		s.BackgroundColor = *update.BackgroundColor
	}
	if update.ForegroundColor != nil {
		s.ForegroundColor = *update.ForegroundColor
	}
	if update.TextSize != nil {
		s.TextSize = *update.TextSize
	}
}

// clone returns a copy safe to hand out after the coordinator's mutex is
// released.
func (s *State) clone() State {
	out := *s
	out.Emojis = append([]string{}, s.Emojis...)
	out.ActiveUsers = append([]User{}, s.ActiveUsers...)
	out.SectionLocks = make(map[string]string, len(s.SectionLocks))
	for section, holder := range s.SectionLocks {
		out.SectionLocks[section] = holder
	}
	return out
}

// touches reports whether the update writes the named section.
func (u Update) touches(section string) bool {
	switch section {
	case "slogan":
		return u.Slogan != nil
	case "emojis":
		return u.Emojis != nil
	case "backgroundColor":
		return u.BackgroundColor != nil
	case "foregroundColor":
		return u.ForegroundColor != nil
	case "textSize":
		return u.TextSize != nil
	}
	return false
}
