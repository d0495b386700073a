package storageclient

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	progressBarWidth     = 32
	progressRenderPeriod = 120 * time.Millisecond
)

// progressBar рисует ASCII-индикатор выполнения для потоков данных.
// Все методы допускают nil-получателя: так индикатор выключается целиком.
type progressBar struct {
	out           io.Writer
	prefix        string
	total         int64
	current       int64
	lastRender    time.Time
	lastLineWidth int
	finished      bool
	mu            sync.Mutex
}

func newProgressBar(out io.Writer, prefix string, total int64) *progressBar {
	if out == nil {
		return nil
	}
	return &progressBar{
		out:    out,
		prefix: prefix,
		total:  total,
	}
}

func (p *progressBar) AddBytes(n int64) {
	if p == nil || n <= 0 {
		return
	}
	p.mu.Lock()
	if p.finished {
		p.mu.Unlock()
		return
	}
	p.current += n
	p.mu.Unlock()
	p.render(false, "")
}

func (p *progressBar) render(force bool, suffix string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.finished && !force {
		p.mu.Unlock()
		return
	}
	now := time.Now()
	if !force && now.Sub(p.lastRender) < progressRenderPeriod {
		p.mu.Unlock()
		return
	}

	line := p.lineLocked() + suffix
	padding := pad(p.lastLineWidth, len(line))
	p.lastLineWidth = len(line)
	p.lastRender = now
	p.mu.Unlock()

	fmt.Fprintf(p.out, "\r%s%s", line, padding)
}

func (p *progressBar) lineLocked() string {
	var b strings.Builder
	b.Grow(len(p.prefix) + 64)
	b.WriteString(p.prefix)
	b.WriteByte(' ')

	if p.total <= 0 {
		b.WriteString(humanBytes(p.current))
		b.WriteString(" transferred")
		return b.String()
	}

	ratio := min(float64(p.current)/float64(p.total), 1)
	filled := min(int(ratio*float64(progressBarWidth)+0.5), progressBarWidth)
	b.WriteByte('[')
	b.WriteString(strings.Repeat("=", filled))
	b.WriteString(strings.Repeat(" ", progressBarWidth-filled))
	fmt.Fprintf(&b, "] %3d%% %s/%s", int(ratio*100+0.5), humanBytes(p.current), humanBytes(p.total))

	return b.String()
}

func (p *progressBar) Finish() {
	p.complete(nil)
}

func (p *progressBar) Fail(err error) {
	if err == nil {
		err = fmt.Errorf("failed")
	}
	p.complete(err)
}

func (p *progressBar) complete(err error) {
	if p == nil {
		return
	}

	p.mu.Lock()
	if p.finished {
		p.mu.Unlock()
		return
	}
	p.finished = true
	line := p.lineLocked()
	if err != nil {
		line += fmt.Sprintf(" ✗ %v", err)
	} else {
		line += " ✓"
	}
	padding := pad(p.lastLineWidth, len(line))
	p.lastLineWidth = len(line)
	p.mu.Unlock()

	fmt.Fprintf(p.out, "\r%s%s\n", line, padding)
}

func pad(prev, cur int) string {
	if prev > cur {
		return strings.Repeat(" ", prev-cur)
	}
	return ""
}

type progressWriter struct {
	bar *progressBar
}

func (w progressWriter) Write(p []byte) (int, error) {
	w.bar.AddBytes(int64(len(p)))
	return len(p), nil
}

type progressReadCloser struct {
	inner io.ReadCloser
	bar   *progressBar
	done  bool
}

func newProgressReadCloser(inner io.ReadCloser, bar *progressBar) io.ReadCloser {
	if bar == nil || inner == nil {
		return inner
	}

	return &progressReadCloser{
		inner: inner,
		bar:   bar,
	}
}

func (p *progressReadCloser) Read(b []byte) (int, error) {
	n, err := p.inner.Read(b)
	p.bar.AddBytes(int64(n))
	if err != nil {
		p.finish(err)
	}
	return n, err
}

func (p *progressReadCloser) Close() error {
	err := p.inner.Close()
	p.finish(err)
	return err
}

func (p *progressReadCloser) finish(err error) {
	if p.done {
		return
	}
	p.done = true
	if err != nil && err != io.EOF {
		p.bar.Fail(err)
		return
	}
	p.bar.Finish()
}

func humanBytes(v int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB", "PB"}
	value := float64(v)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d %s", v, units[unit])
	}
	return fmt.Sprintf("%.1f %s", value, units[unit])
}
