package viz

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Progress counts finished rows. It implements pairwise.Observer.
type Progress struct {
	total   int64
	rows    atomic.Int64
	done    atomic.Bool
	elapsed atomic.Int64
}

func NewProgress(n int) *Progress {
	return &Progress{total: int64(n)}
}

func (p *Progress) OnRow(i, pairs int) {
	p.rows.Add(1)
}

func (p *Progress) OnComplete(n int, elapsed time.Duration) {
	p.elapsed.Store(int64(elapsed))
	p.done.Store(true)
}

// Fraction is the share of rows finished, in [0, 1].
func (p *Progress) Fraction() float64 {
	if p.total == 0 {
		if p.done.Load() {
			return 1
		}
		return 0
	}
	return float64(p.rows.Load()) / float64(p.total)
}

func (p *Progress) Done() bool { return p.done.Load() }

func (p *Progress) Elapsed() time.Duration {
	return time.Duration(p.elapsed.Load())
}

type tickMsg time.Time

const refresh = 80 * time.Millisecond

func tick() tea.Cmd {
	return tea.Tick(refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// ProgressModel is a Bubble Tea model that polls a Progress until the
// computation finishes.
type ProgressModel struct {
	title    string
	progress *Progress
	frame    int
	started  time.Time
	detached bool
}

func NewProgressModel(title string, p *Progress) ProgressModel {
	return ProgressModel{title: title, progress: p, started: time.Now()}
}

func (m ProgressModel) Init() tea.Cmd {
	return tick()
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// the computation has no cancellation point; stop drawing only
			m.detached = true
			return m, tea.Quit
		}
	case tickMsg:
		m.frame++
		if m.progress.Done() {
			return m, tea.Quit
		}
		return m, tick()
	}
	return m, nil
}

// Detached reports whether the user closed the view before completion.
func (m ProgressModel) Detached() bool { return m.detached }

func (m ProgressModel) View() string {
	var b strings.Builder

	frac := m.progress.Fraction()
	status := StatusRunning.Render(AnimatedSpinner(m.frame) + " computing")
	elapsed := time.Since(m.started)
	if m.progress.Done() {
		status = StatusDone.Render("✓ done")
		elapsed = m.progress.Elapsed()
	}

	b.WriteString(Title.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(ProgressBar(frac, 40))
	b.WriteString(fmt.Sprintf(" %5.1f%%\n", frac*100))
	b.WriteString(fmt.Sprintf("%s  %s\n\n", status, Subtle.Render(elapsed.Truncate(time.Millisecond).String())))
	b.WriteString(KeyHint.Render("q: hide progress"))
	b.WriteString("\n")

	return b.String()
}
