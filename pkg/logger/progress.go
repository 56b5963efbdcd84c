package logger

import (
	"fmt"
	"strings"
	"sync"
)

// ProgressBar tracks completion of a fixed number of steps.
// Increment may be called from many goroutines at once.
type ProgressBar struct {
	mu      sync.Mutex
	total   int
	current int
	width   int
	message string
	out     *output
	done    bool
}

// NewProgressBar creates a new progress bar drawn on the default logger's output
func NewProgressBar(total int, message string) *ProgressBar {
	return &ProgressBar{
		total:   total,
		width:   40,
		message: message,
		out:     defaultOutput(),
	}
}

// Current returns the number of completed steps
func (p *ProgressBar) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Increment increments the progress bar by 1
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current < p.total {
		p.current++
	}
	p.draw(false)
}

// Finish draws the final state and ends the line.
// The bar keeps the count it reached, so an interrupted batch shows as partial.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	p.done = true
	p.draw(true)
}

// draw redraws in place on a terminal; otherwise only the final line is written
func (p *ProgressBar) draw(final bool) {
	o := p.out
	if o == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.interactive && !final {
		return
	}

	percent := 1.0
	if p.total > 0 {
		percent = float64(p.current) / float64(p.total)
	}
	filled := int(percent * float64(p.width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	line := fmt.Sprintf("%s: %s %3.0f%% (%d/%d)", p.message, o.paint(colorBar, bar), percent*100, p.current, p.total)
	if o.interactive {
		fmt.Fprint(o.writer, "\r"+line)
		if final {
			fmt.Fprintln(o.writer)
		}
		return
	}
	fmt.Fprintln(o.writer, line)
}
