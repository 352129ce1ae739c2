package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"cdnsim/internal/config"
	"cdnsim/internal/synth"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a rendered sample line for the viewport.
type logMsg struct{ line string }

// sampleMsg carries raw sample data for aggregates and the scatter.
type sampleMsg struct {
	index  int
	sample synth.Sample
}

// runInfoMsg carries run metadata for the header.
type runInfoMsg struct{ run synth.RunInfo }

const (
	maxSectionHeightPct = 0.2
	maxLogLines         = 1000
	minScatterSpan      = 1e-6
)

// TUIWriter renders a dataset using a bubbletea TUI.
type TUIWriter struct {
	program teaProgram
	done    chan struct{}
	index   int
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg config.GenerationConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
	}()
	return w
}

// WriteRunInfo sends run metadata to the header.
func (w *TUIWriter) WriteRunInfo(run synth.RunInfo) error {
	w.program.Send(runInfoMsg{run: run})
	return nil
}

// Write implements SampleWriter.
func (w *TUIWriter) Write(s synth.Sample) error {
	idx := w.index
	w.index++
	w.program.Send(logMsg{line: colorSampleLine(idx, s)})
	w.program.Send(sampleMsg{index: idx, sample: s})
	return nil
}

// WriteBatch outputs multiple samples.
func (w *TUIWriter) WriteBatch(samples []synth.Sample) error {
	for _, s := range samples {
		_ = w.Write(s)
	}
	return nil
}

// Wait blocks until the user exits the viewer.
func (w *TUIWriter) Wait() {
	if w.done != nil {
		<-w.done
	}
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	cfg  config.GenerationConfig
	run  synth.RunInfo
	tbl  table.Model
	vp   viewport.Model
	lsVP viewport.Model

	logs      []string
	lossyLogs []string
	samples   []synth.Sample

	lossyCount int
	floorHits  int
	sumRTT     float64
	sumThr     float64

	wrap        bool
	autoscroll  bool
	summary     bool
	help        bool
	showRun     bool
	showLossy   bool
	showScatter bool

	gotoInput  textinput.Model
	gotoDialog bool

	header       string
	headerHeight int
	height       int

	scatterCenterX float64
	scatterCenterY float64
	scatterSpanX   float64
	scatterSpanY   float64
	scatterInit    bool
}

func newTUIModel(cfg config.GenerationConfig) tuiModel {
	cols := []table.Column{
		{Title: "Parameter", Width: 22},
		{Title: "Value", Width: 16},
		{Title: "Parameter", Width: 22},
		{Title: "Value", Width: 16},
	}
	rows := []table.Row{
		{"Samples", fmt.Sprintf("%d", cfg.Samples), "Loss Probability", fmt.Sprintf("%.2f", cfg.Loss.Probability)},
		{"RTT mean_log", fmt.Sprintf("%.4f", cfg.RTT.MeanLog), "Loss Bounds", fmt.Sprintf("[%.4f, %.4f]", cfg.Loss.Min, cfg.Loss.Max)},
		{"RTT sigma_log", fmt.Sprintf("%.4f", cfg.RTT.SigmaLog), "Loss Impact Weight", fmt.Sprintf("%.0f", cfg.Loss.ImpactWeight)},
		{"Delay mean_log", fmt.Sprintf("%.4f", cfg.ServerDelay.MeanLog), "Throughput Constant", fmt.Sprintf("%.0f", cfg.Throughput.Constant)},
		{"Delay sigma_log", fmt.Sprintf("%.4f", cfg.ServerDelay.SigmaLog), "Throughput Noise", fmt.Sprintf("[%.2f, %.2f]", cfg.Throughput.NoiseLow, cfg.Throughput.NoiseHigh)},
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	return tuiModel{
		cfg:        cfg,
		tbl:        t,
		vp:         viewport.New(0, 0),
		lsVP:       viewport.New(0, 0),
		autoscroll: true,
		showRun:    true,
		showLossy:  true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		tableWidth := msg.Width
		if m.showRun {
			tableWidth = msg.Width / 2
		}
		m.tbl.SetWidth(tableWidth)
		m.vp.Width = msg.Width
		m.lsVP.Width = msg.Width
		m.height = msg.Height
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
		m.refreshLossy()
	case tea.KeyMsg:
		if m.gotoDialog {
			switch msg.Type {
			case tea.KeyEnter:
				if row, err := strconv.Atoi(strings.TrimSpace(m.gotoInput.Value())); err == nil && row >= 0 {
					m.autoscroll = false
					m.vp.SetYOffset(row)
				}
				m.gotoDialog = false
				m.updateViewportHeight()
			case tea.KeyEsc:
				m.gotoDialog = false
				m.updateViewportHeight()
			default:
				var cmd tea.Cmd
				m.gotoInput, cmd = m.gotoInput.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
				m.updateViewportHeight()
			}
			return m, nil
		}
		if m.showScatter {
			switch msg.String() {
			case "+", "=":
				m.scatterSpanX *= 0.8
				m.scatterSpanY *= 0.8
				if m.scatterSpanX < minScatterSpan {
					m.scatterSpanX = minScatterSpan
				}
				if m.scatterSpanY < minScatterSpan {
					m.scatterSpanY = minScatterSpan
				}
				return m, nil
			case "-":
				m.scatterSpanX *= 1.25
				m.scatterSpanY *= 1.25
				return m, nil
			case "left":
				m.scatterCenterX -= m.scatterSpanX * 0.1
				return m, nil
			case "right":
				m.scatterCenterX += m.scatterSpanX * 0.1
				return m, nil
			case "up":
				m.scatterCenterY += m.scatterSpanY * 0.1
				return m, nil
			case "down":
				m.scatterCenterY -= m.scatterSpanY * 0.1
				return m, nil
			case "0":
				m.initScatterViewport()
				return m, nil
			}
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			m.header = m.renderHeader()
			m.headerHeight = lipgloss.Height(m.header)
			m.updateViewportHeight()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
				m.lsVP.GotoBottom()
			}
			return m, nil
		case "g":
			m.gotoInput = textinput.New()
			m.gotoInput.Placeholder = "row number"
			m.gotoInput.Focus()
			m.gotoDialog = true
			m.updateViewportHeight()
			return m, nil
		case "p":
			m.showRun = !m.showRun
			width := m.vp.Width
			if m.showRun {
				m.tbl.SetWidth(width / 2)
			} else {
				m.tbl.SetWidth(width)
			}
			m.header = m.renderHeader()
			m.headerHeight = lipgloss.Height(m.header)
			m.updateViewportHeight()
			return m, nil
		case "l":
			m.showLossy = !m.showLossy
			m.updateViewportHeight()
			return m, nil
		case "m":
			m.showScatter = !m.showScatter
			if m.showScatter && !m.scatterInit {
				m.initScatterViewport()
			}
			m.updateViewportHeight()
			return m, nil
		case "t":
			m.summary = !m.summary
			m.updateViewportHeight()
			return m, nil
		case "h", "?":
			m.help = !m.help
			m.updateViewportHeight()
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
				m.lsVP.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
				m.lsVP.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
				m.lsVP.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
				m.lsVP.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				m.lsVP, _ = m.lsVP.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case sampleMsg:
		s := msg.sample
		m.samples = append(m.samples, s)
		m.sumRTT += s.RTTMs
		m.sumThr += s.ThroughputMbps
		if s.ThroughputMbps == synth.MinThroughputMbps {
			m.floorHits++
		}
		if s.Loss > 0 {
			m.lossyCount++
			line := fmt.Sprintf("%s#%04d%s %sLOSSY%s loss=%.4f rtt=%.3f thr=%.3f",
				colorGray, msg.index, colorReset, colorRed, colorReset,
				s.Loss, s.RTTMs, s.ThroughputMbps)
			m.lossyLogs = append(m.lossyLogs, line)
			if len(m.lossyLogs) > maxLogLines {
				m.lossyLogs = m.lossyLogs[len(m.lossyLogs)-maxLogLines:]
			}
			m.updateViewportHeight()
			m.refreshLossy()
			m.refreshViewport()
		}
	case runInfoMsg:
		m.run = msg.run
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
	}
	return m, nil
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())

	maxLines := m.maxSectionLines()
	lossyLines := len(m.lossyLogs)
	if lossyLines == 0 {
		lossyLines = 1
	}
	if lossyLines > maxLines {
		lossyLines = maxLines
	}
	m.lsVP.Height = lossyLines

	lossyHeight := 0
	if m.showLossy {
		lossyHeight = 1 + m.lsVP.Height
	}
	gotoHeight := 0
	if m.gotoDialog {
		gotoHeight = 2
	}
	h := m.height - m.headerHeight - bottomHeight - lossyHeight - gotoHeight - 4
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.lsVP.GotoBottom()
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshLossy() {
	content := "none"
	if len(m.lossyLogs) > 0 {
		content = strings.Join(m.lossyLogs, "\n")
	}
	m.lsVP.SetContent(content)
	if m.autoscroll {
		m.lsVP.GotoBottom()
	}
}

func (m tuiModel) maxSectionLines() int {
	h := int(float64(m.height) * maxSectionHeightPct)
	if h < 1 {
		h = 1
	}
	return h
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	bottom := m.renderBottom()
	divider := strings.Repeat("─", m.vp.Width)
	if m.showScatter {
		sections := []string{
			m.header,
			divider,
			m.renderScatter(),
			divider,
			bottom,
		}
		return strings.Join(sections, "\n")
	}
	sections := []string{
		m.header,
		divider,
		m.vp.View(),
	}
	if m.showLossy {
		sections = append(sections, divider, "Lossy Samples:", m.lsVP.View())
	}
	if m.gotoDialog {
		sections = append(sections, divider, m.renderGoto())
	}
	sections = append(sections, divider, bottom)
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	tableView := m.tbl.View()
	if !m.showRun {
		return tableView
	}
	runWidth := m.vp.Width/2 - 1
	runTree := renderRunTree(m.run, m.wrap, runWidth)
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("│")
	return lipgloss.JoinHorizontal(lipgloss.Top, tableView, sep, runTree)
}

func renderRunTree(run synth.RunInfo, wrap bool, width int) string {
	lines := []string{
		fmt.Sprintf("├─ id %s%s%s", colorCyan, run.ID, colorReset),
		fmt.Sprintf("├─ profile %s%s%s", colorBlue, run.Profile, colorReset),
		fmt.Sprintf("├─ seed %s%d%s", colorYellow, run.Seed, colorReset),
		fmt.Sprintf("└─ generated %s%s%s", colorGray, run.GeneratedAt.Format("2006-01-02 15:04:05"), colorReset),
	}
	var b strings.Builder
	b.WriteString("Run\n")
	for _, line := range lines {
		if wrap && width > 0 {
			line = wordwrap.String(line, width)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m tuiModel) renderSummary() string {
	total := len(m.samples)
	avgRTT, avgThr := 0.0, 0.0
	if total > 0 {
		avgRTT = m.sumRTT / float64(total)
		avgThr = m.sumThr / float64(total)
	}
	lossyPct := 0.0
	if total > 0 {
		lossyPct = float64(m.lossyCount) / float64(total) * 100
	}
	return fmt.Sprintf("%sSUMMARY%s %ssamples=%d%s %slossy=%d(%.1f%%)%s %savg_rtt=%.2f%s %savg_thr=%.2f%s %sfloor_hits=%d%s",
		colorBlue, colorReset,
		colorGreen, total, colorReset,
		colorRed, m.lossyCount, lossyPct, colorReset,
		colorYellow, avgRTT, colorReset,
		colorCyan, avgThr, colorReset,
		colorMagenta, m.floorHits, colorReset)
}

func (m tuiModel) renderBottom() string {
	indicator := func(on bool) string {
		c := lipgloss.Color("9")
		if on {
			c = lipgloss.Color("10")
		}
		return lipgloss.NewStyle().Foreground(c).Render("●")
	}
	state := fmt.Sprintf("%sDATASET%s %ssamples=%d%s %slossy=%d%s",
		colorBlue, colorReset,
		colorGreen, len(m.samples), colorReset,
		colorRed, m.lossyCount, colorReset)
	line := fmt.Sprintf("%s | Wrap %s | Scroll %s | Summary %s | Help %s | Run %s | Lossy %s | Scatter %s",
		state,
		indicator(m.wrap),
		indicator(m.autoscroll),
		indicator(m.summary),
		indicator(m.help),
		indicator(m.showRun),
		indicator(m.showLossy),
		indicator(m.showScatter))
	if m.summary {
		return fmt.Sprintf("%s\n%s", m.renderSummary(), line)
	}
	return line
}

func (m tuiModel) renderGoto() string {
	return fmt.Sprintf("Go to row - Enter to jump, Esc to cancel: %s", m.gotoInput.View())
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" w  toggle wrap for sample lines",
		" s  toggle auto-scroll",
		" g  go to row",
		" t  toggle summary footer",
		" m  toggle scatter view",
		" +  zoom in scatter",
		" -  zoom out scatter",
		" 0  reset scatter view",
		" ←→↑↓ pan scatter",
		" p  toggle run info",
		" l  toggle lossy section",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}

func (m *tuiModel) initScatterViewport() {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range m.samples {
		if s.RTTMs < minX {
			minX = s.RTTMs
		}
		if s.RTTMs > maxX {
			maxX = s.RTTMs
		}
		if s.ThroughputMbps < minY {
			minY = s.ThroughputMbps
		}
		if s.ThroughputMbps > maxY {
			maxY = s.ThroughputMbps
		}
	}
	if minX == math.Inf(1) {
		minX, maxX = 0, 1
		minY, maxY = 0, 1
	}
	m.scatterCenterX = (maxX + minX) / 2
	m.scatterCenterY = (maxY + minY) / 2
	m.scatterSpanX = (maxX - minX) * 1.05
	m.scatterSpanY = (maxY - minY) * 1.05
	if m.scatterSpanX < minScatterSpan {
		m.scatterSpanX = 1
	}
	if m.scatterSpanY < minScatterSpan {
		m.scatterSpanY = 1
	}
	m.scatterInit = true
}

func (m tuiModel) renderScatter() string {
	width := m.vp.Width
	bottomHeight := lipgloss.Height(m.renderBottom())
	plotHeight := m.height - m.headerHeight - bottomHeight - 4
	if plotHeight < 1 {
		plotHeight = 1
	}
	if len(m.samples) == 0 {
		return "No samples"
	}
	if width < 1 {
		width = 1
	}

	minX := m.scatterCenterX - m.scatterSpanX/2
	maxX := m.scatterCenterX + m.scatterSpanX/2
	minY := m.scatterCenterY - m.scatterSpanY/2
	maxY := m.scatterCenterY + m.scatterSpanY/2

	okCells := makeCells(plotHeight, width)
	lossyCells := makeCells(plotHeight, width)
	for _, s := range m.samples {
		px := int((s.RTTMs - minX) / (maxX - minX) * float64(width*2-1))
		py := int((maxY - s.ThroughputMbps) / (maxY - minY) * float64(plotHeight*4-1))
		if px < 0 || py < 0 || px >= width*2 || py >= plotHeight*4 {
			continue
		}
		if s.Loss > 0 {
			setBrailleDot(lossyCells, px, py)
		} else {
			setBrailleDot(okCells, px, py)
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("rtt %.2f..%.2f ms  throughput %.2f..%.2f Mbps\n", minX, maxX, minY, maxY))
	for y := 0; y < plotHeight; y++ {
		for x := 0; x < width; x++ {
			okMask := okCells[y][x]
			lossyMask := lossyCells[y][x]
			ch := brailleFromMask(okMask | lossyMask)
			switch {
			case lossyMask != 0:
				b.WriteString(colorRed)
				b.WriteRune(ch)
				b.WriteString(colorReset)
			case okMask != 0:
				b.WriteString(colorCyan)
				b.WriteRune(ch)
				b.WriteString(colorReset)
			default:
				b.WriteRune(ch)
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(fmt.Sprintf("%s⣿%s=clean %s⣿%s=lossy  +/- zoom, arrows pan, 0 reset", colorCyan, colorReset, colorRed, colorReset))
	return b.String()
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY < 0 || cellY >= len(cells) {
		return
	}
	if cellX < 0 || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
