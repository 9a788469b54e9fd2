package terminal

import (
	"fmt"
	"io"

	"github.com/Rrens/smartchat/internal/domain"
)

// PrintSessions lists sessions oldest first, marking the active one
func PrintSessions(w io.Writer, sessions []domain.ChatSession, activeID string) {
	st := DefaultStyles()
	for i, s := range sessions {
		marker := st.Muted.Render("Load")
		if s.ID == activeID {
			marker = st.Active.Render("Active")
		}
		fmt.Fprintf(w, "%d. %s  %s  %s\n", i+1, s.Title, marker, st.Muted.Render(s.ID))
	}
}
