package qr

import (
	"sync"

	"github.com/serroba/shortlink-client/internal/links"
)

// RevealController tracks which link, if any, has its QR code shown. At most one is shown.
type RevealController struct {
	mu       sync.Mutex
	selected links.Code
	shown    bool
}

// NewRevealController creates a controller with nothing shown.
func NewRevealController() *RevealController {
	return &RevealController{}
}

// Toggle hides the QR of code if it is shown, otherwise shows it in place of any other.
// It returns the selection after the toggle.
func (r *RevealController) Toggle(code links.Code) (links.Code, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.shown && r.selected == code {
		r.selected, r.shown = "", false
	} else {
		r.selected, r.shown = code, true
	}

	return r.selected, r.shown
}

// Selected returns the code whose QR is shown.
func (r *RevealController) Selected() (links.Code, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.selected, r.shown
}

// IsShown reports whether the QR of code is shown.
func (r *RevealController) IsShown(code links.Code) bool {
	selected, shown := r.Selected()

	return shown && selected == code
}
