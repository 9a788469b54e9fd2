// Package render draws chat messages onto a display surface, either at once
// or revealed one character at a time.
package render

import "github.com/Rrens/smartchat/internal/domain"

// Bubble is one message on a Surface whose markup can be replaced
type Bubble interface {
	Update(markup string)
}

// Surface is the display a Renderer draws on. Markup passed in is already
// escaped by the format package.
type Surface interface {
	Clear()
	Append(role domain.MessageRole, markup string) Bubble
	ShowTyping()
	HideTyping()
	SetInputLocked(locked bool)
}
