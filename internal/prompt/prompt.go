// Package prompt owns an interactive line prompt: it shows the prompt text,
// reads whole lines from an input stream and redraws itself around output
// written by other parts of the program.
package prompt

import (
	"bufio"
	"io"
	"strings"
	"sync"
)

// eraseLine returns the cursor to column 0 and clears the line.
const eraseLine = "\r\x1b[2K"

// Prompt is a line prompt bound to an input stream and an output sink.
// All terminal writes go through it.
type Prompt struct {
	in  io.Reader
	out io.Writer

	mu        sync.Mutex
	text      string
	started   bool
	closed    bool
	displayed bool
	err       error

	lines     chan string
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Prompt reading from in and drawing on out.
func New(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{
		in:    in,
		out:   out,
		lines: make(chan string),
		done:  make(chan struct{}),
	}
}

// Start displays text and begins reading lines. Later calls are no-ops.
func (p *Prompt) Start(text string) {
	p.mu.Lock()
	if p.started || p.closed {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.text = text
	p.write(text)
	p.displayed = true
	p.mu.Unlock()

	go p.readLoop()
}

// Lines yields completed lines in input order. It is closed once the input
// reaches end-of-stream or fails, which is how callers learn the input has
// gone away.
func (p *Prompt) Lines() <-chan string {
	return p.lines
}

// Redisplay redraws the prompt. Calling it repeatedly leaves the same
// terminal state.
func (p *Prompt) Redisplay() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started || p.closed {
		return
	}
	if p.displayed {
		p.write(eraseLine + p.text)
	} else {
		p.write(p.text)
	}
	p.displayed = true
}

// Println writes text on its own line, erasing a displayed prompt first.
// The prompt stays suspended until the next Redisplay.
func (p *Prompt) Println(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.displayed {
		p.write(eraseLine + text + "\n")
	} else {
		p.write(text + "\n")
	}
	p.displayed = false
}

// PrintAbove writes text on its own line and redraws the prompt under it in
// one write, so no keystroke echo can land between the two. Before Start or
// after Close it behaves like Println.
func (p *Prompt) PrintAbove(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var b strings.Builder
	if p.displayed {
		b.WriteString(eraseLine)
	}
	b.WriteString(text)
	b.WriteByte('\n')
	p.displayed = false
	if p.started && !p.closed {
		b.WriteString(p.text)
		p.displayed = true
	}
	p.write(b.String())
}

// Close stops line delivery and further prompt redraws.
func (p *Prompt) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.closeOnce.Do(func() { close(p.done) })
}

func (p *Prompt) readLoop() {
	defer close(p.lines)

	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		select {
		case <-p.done:
			return
		default:
		}

		// Enter moved the cursor to a fresh line.
		p.mu.Lock()
		p.displayed = false
		p.mu.Unlock()

		select {
		case p.lines <- line:
		case <-p.done:
			return
		}
	}

	p.mu.Lock()
	p.err = scanner.Err()
	p.mu.Unlock()
}

// Err returns the read error that ended the input, if any. A clean
// end-of-stream yields nil.
func (p *Prompt) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// write must be called with mu held. Each call is a single Write so output
// from one operation is never split.
func (p *Prompt) write(s string) {
	_, _ = io.WriteString(p.out, s)
}
