package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/venuemap/pkg/observability"
	"github.com/matzehuels/venuemap/pkg/pipeline"
)

// Spinner shows the current pipeline stage on one terminal line. The
// message is replaced as the pipeline moves from loading to anchor
// suggestion to rendering (see [Spinner.Follow]).
type Spinner struct {
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string

	mu      sync.Mutex
	message string
	width   int // widest line written, for clearing
	started bool
}

// newSpinner creates a spinner on stderr that stops when ctx is cancelled.
func newSpinner(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, out io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     out,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		message: message,
	}
}

// Message returns the text currently shown.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()
}

// Start begins the animation. Calling Start twice has no effect.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(s.frames[i%len(s.frames)])
			}
		}
	}()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	if n := utf8.RuneCountInString(s.message) + 2; n > s.width {
		s.width = n
	}
	// pad so a shorter stage message hides the tail of the previous one
	fmt.Fprintf(s.out, "\r%s%s", line, strings.Repeat(" ", s.width-utf8.RuneCountInString(s.message)-2))
}

// Stop stops the animation and clears the line. It is safe to call more
// than once and before Start.
func (s *Spinner) Stop() {
	s.cancel()
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	select {
	case <-s.done:
	default:
		close(s.done)
	}
	if started {
		<-s.stopped
	}
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended the spinner.
func (s *Spinner) Cancelled() bool {
	select {
	case <-s.done:
		return false
	default:
	}
	return s.ctx.Err() != nil
}

// Follow installs pipeline hooks that update the spinner message with the
// current stage and forward every event to the previously registered
// hooks. The returned function restores the previous hooks.
func (s *Spinner) Follow() (restore func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(stageHooks{PipelineHooks: prev, spinner: s})
	return func() { observability.SetPipelineHooks(prev) }
}

// stageHooks maps pipeline events to spinner messages.
type stageHooks struct {
	observability.PipelineHooks
	spinner *Spinner
}

func (h stageHooks) OnLoadStart(ctx context.Context, source string) {
	h.spinner.SetMessage("Loading " + sourceLabel(source) + "...")
	h.PipelineHooks.OnLoadStart(ctx, source)
}

func (h stageHooks) OnRecommend(ctx context.Context, rooms, anchors int) {
	h.spinner.SetMessage(fmt.Sprintf("Suggested %d anchors for %d rooms", anchors, rooms))
	h.PipelineHooks.OnRecommend(ctx, rooms, anchors)
}

func (h stageHooks) OnRenderStart(ctx context.Context, formats []string) {
	h.spinner.SetMessage(renderMessage(formats))
	h.PipelineHooks.OnRenderStart(ctx, formats)
}

// sourceLabel shortens a venue source for display: file paths become
// their base name, built-in and inline sources read as words.
func sourceLabel(source string) string {
	switch {
	case source == pipeline.SourceInline:
		return "inline venue"
	case strings.HasPrefix(source, "builtin:"):
		return "built-in venue " + strings.TrimPrefix(source, "builtin:")
	case source == "":
		return "venue"
	}
	return filepath.Base(source)
}

var formatLabels = map[string]string{
	pipeline.FormatSVG:       "SVG",
	pipeline.FormatGeoJSON:   "GeoJSON",
	pipeline.FormatPNG:       "PNG",
	pipeline.FormatPDF:       "PDF",
	pipeline.FormatDOT:       "DOT",
	pipeline.FormatHierarchy: "hierarchy SVG",
}

// renderMessage describes a render of formats, e.g.
// "Rendering SVG, GeoJSON...".
func renderMessage(formats []string) string {
	if len(formats) == 0 {
		return "Rendering..."
	}
	labels := make([]string, len(formats))
	for i, f := range formats {
		if l, ok := formatLabels[f]; ok {
			labels[i] = l
		} else {
			labels[i] = f
		}
	}
	return "Rendering " + strings.Join(labels, ", ") + "..."
}
