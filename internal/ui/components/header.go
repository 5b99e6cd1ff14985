package components

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"

	"github.com/lynva/lynva-tui/internal/ui/theme"
)

const messageTimeout = 3 * time.Second

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Header shows the application title, a loading spinner and transient
// success or error messages.
type Header struct {
	*tview.TextView

	app   *tview.Application
	title string

	mu          sync.Mutex
	stopLoading chan struct{}
	generation  int
}

// NewHeader creates the application header.
func NewHeader(title string) *Header {
	tv := tview.NewTextView()
	tv.SetTextAlign(tview.AlignCenter)
	tv.SetDynamicColors(true)
	tv.SetBackgroundColor(theme.Colors.Header)
	tv.SetTextColor(theme.Colors.HeaderText)
	tv.SetText(title)

	return &Header{TextView: tv, title: title}
}

// SetApp sets the application used to queue redraws from background goroutines.
func (h *Header) SetApp(app *tview.Application) {
	h.app = app
}

// SetTitle changes the idle text and shows it.
func (h *Header) SetTitle(title string) {
	h.mu.Lock()
	h.title = title
	h.mu.Unlock()

	h.SetText(title)
}

// Title returns the idle text.
func (h *Header) Title() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.title
}

// ShowLoading starts the spinner next to message.
func (h *Header) ShowLoading(message string) {
	h.StopLoading()

	h.mu.Lock()
	stop := make(chan struct{})
	h.stopLoading = stop
	h.generation++
	gen := h.generation
	h.mu.Unlock()

	h.SetText(h.loadingText(spinnerFrames[0], message))

	if h.app != nil {
		go h.animate(stop, gen, message)
	}
}

// StopLoading stops the spinner if it is running.
func (h *Header) StopLoading() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopLoading == nil {
		return
	}

	close(h.stopLoading)
	h.stopLoading = nil

	// Without an application there is no animation to restore the title.
	if h.app == nil {
		h.SetText(h.title)
	}
}

// IsLoading reports whether the spinner is running.
func (h *Header) IsLoading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.stopLoading != nil
}

// ShowSuccess shows message in the success color for a few seconds.
func (h *Header) ShowSuccess(message string) {
	h.flash(fmt.Sprintf("[%s]✓ %s[-]", theme.ColorToTag(theme.Colors.Success), tview.Escape(message)))
}

// ShowError shows message in the error color for a few seconds.
func (h *Header) ShowError(message string) {
	h.flash(fmt.Sprintf("[%s]✗ %s[-]", theme.ColorToTag(theme.Colors.Error), tview.Escape(message)))
}

func (h *Header) flash(text string) {
	h.StopLoading()

	h.mu.Lock()
	h.generation++
	gen := h.generation
	h.mu.Unlock()

	h.SetText(text)

	if h.app == nil {
		return
	}

	time.AfterFunc(messageTimeout, func() {
		h.app.QueueUpdateDraw(func() {
			// A newer message or spinner owns the header now.
			if title, ok := h.owns(gen); ok {
				h.SetText(title)
			}
		})
	})
}

func (h *Header) loadingText(frame, message string) string {
	return fmt.Sprintf("[%s]%s %s[-]", theme.ColorToTag(theme.Colors.Warning), frame, tview.Escape(message))
}

func (h *Header) animate(stop <-chan struct{}, gen int, message string) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for i := 1; ; i++ {
		select {
		case <-stop:
			h.app.QueueUpdateDraw(func() {
				if title, ok := h.owns(gen); ok {
					h.SetText(title)
				}
			})

			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			h.app.QueueUpdateDraw(func() {
				if _, ok := h.owns(gen); ok {
					h.SetText(h.loadingText(frame, message))
				}
			})
		}
	}
}

// owns reports whether gen is still the latest header message.
func (h *Header) owns(gen int) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.title, h.generation == gen
}
