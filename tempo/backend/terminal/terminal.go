package terminal

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-tempo/tempo/backend"
	"github.com/valerio/go-tempo/tempo/input"
	"github.com/valerio/go-tempo/tempo/input/action"
)

const (
	minTermWidth  = 40
	minTermHeight = 10
	barWidth      = 20
	nameWidth     = 14
	logCapacity   = 100
)

const helpLine = " space pause  o step  r restart  +/- speed  q quit "

var (
	titleStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dimStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	barStyle    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	pausedStyle = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen     tcell.Screen
	injected   bool
	config     backend.Config
	logBuffer  *LogBuffer
	logLevel   slog.Level
	prevLogger *slog.Logger
	signals    chan os.Signal
}

// Option configures a terminal Backend.
type Option func(*Backend)

// WithScreen renders to s instead of the process terminal. Signal handling
// is left to the caller.
func WithScreen(s tcell.Screen) Option {
	return func(t *Backend) {
		t.screen = s
		t.injected = true
	}
}

// WithLogLevel sets the minimum level shown in the log panel.
func WithLogLevel(level slog.Level) Option {
	return func(t *Backend) { t.logLevel = level }
}

// New creates a new terminal backend
func New(opts ...Option) *Backend {
	t := &Backend{logLevel: slog.LevelInfo}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Init initializes the screen and redirects logging into the log panel.
func (t *Backend) Init(config backend.Config) error {
	t.config = config

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	t.logBuffer = NewLogBuffer(logCapacity)
	t.prevLogger = slog.Default()
	slog.SetDefault(slog.New(NewLogBufferHandler(t.logBuffer, t.logLevel)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	if !t.injected {
		t.signals = make(chan os.Signal, 1)
		signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	}

	slog.Info("Terminal backend initialized", "title", config.Title)
	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame backend.Frame) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	select {
	case sig := <-t.signals:
		slog.Info("Received signal", "signal", sig)
		events = append(events, backend.InputEvent{Action: action.Quit})
	default:
	}

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if act, ok := mapKey(ev); ok {
				slog.Debug("Key event", "key", ev.Name(), "action", act)
				events = append(events, backend.InputEvent{Action: act})
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	t.render(frame)
	t.screen.Show()
	return events, nil
}

// Cleanup restores the terminal and the previous logger.
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.prevLogger != nil {
		slog.SetDefault(t.prevLogger)
		t.prevLogger = nil
	}
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
}

func mapKey(ev *tcell.EventKey) (action.Action, bool) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return action.Quit, true
	case tcell.KeyRune:
		name := string(ev.Rune())
		if ev.Rune() == ' ' {
			name = "Space"
		}
		return input.GetDefaultMapping(name)
	}
	if name, ok := tcellKeyNameMap[ev.Key()]; ok {
		return input.GetDefaultMapping(name)
	}
	return 0, false
}

func (t *Backend) render(frame backend.Frame) {
	t.screen.Clear()
	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, pausedStyle)
		return
	}

	title := " tempo "
	if t.config.Title != "" {
		title = fmt.Sprintf(" tempo: %s ", t.config.Title)
	}
	t.drawText(1, 0, termWidth-1, title, titleStyle)

	status := fmt.Sprintf("frame %d  time %.2fs  fps %.1f  speed %.2fx",
		frame.Number, frame.TimeMs/1000, frame.FPS, frame.Speed)
	t.drawText(1, 1, termWidth-1, status, textStyle)
	if frame.Paused {
		t.drawText(len(status)+3, 1, termWidth, "[PAUSED]", pausedStyle)
	}

	y := 3
	y = t.drawSection(y, termWidth, termHeight, " Tweens ", len(frame.Tweens), func(i, row int) {
		tw := frame.Tweens[i]
		t.drawBar(row, termWidth, tw.Name, tw.Progress,
			fmt.Sprintf("%s %s", formatVector(tw.Vector, tw.Value), tw.State))
	})
	y = t.drawSection(y, termWidth, termHeight, " Timers ", len(frame.Timers), func(i, row int) {
		tm := frame.Timers[i]
		laps := fmt.Sprintf("lap %d", tm.Lap)
		if tm.Laps > 0 {
			laps = fmt.Sprintf("lap %d/%d", tm.Lap, tm.Laps)
		}
		t.drawBar(row, termWidth, tm.Name, tm.Progress, fmt.Sprintf("%s %s", laps, tm.State))
	})

	bottom := termHeight
	if t.config.ShowHelp {
		bottom--
		t.drawText(1, bottom, termWidth-1, helpLine, dimStyle)
	}
	t.drawLogs(y+1, bottom, termWidth)
}

// drawSection draws a titled list of rows and returns the next free row.
func (t *Backend) drawSection(y, termWidth, termHeight int, title string, n int, row func(i, y int)) int {
	if n == 0 || y >= termHeight {
		return y
	}
	t.drawText(1, y, termWidth-1, title, titleStyle)
	y++
	for i := 0; i < n && y < termHeight; i++ {
		row(i, y)
		y++
	}
	return y + 1
}

func (t *Backend) drawBar(y, termWidth int, name string, progress float64, suffix string) {
	if len(name) > nameWidth {
		name = name[:nameWidth]
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s [", nameWidth, name)
	t.drawText(2, y, termWidth, sb.String(), textStyle)

	filled := barFill(progress, barWidth)
	x := 2 + nameWidth + 2
	for i := 0; i < barWidth && x+i < termWidth; i++ {
		ch := '░'
		if i < filled {
			ch = '█'
		}
		t.screen.SetContent(x+i, y, ch, nil, barStyle)
	}
	x += barWidth
	t.drawText(x, y, termWidth, "] "+suffix, textStyle)
}

func (t *Backend) drawLogs(startY, endY, termWidth int) {
	if startY >= endY {
		return
	}
	t.drawText(1, startY, termWidth-1, " Logs ", titleStyle)
	logs := t.logBuffer.Recent(endY-startY-1, t.logLevel)
	for i, entry := range logs {
		t.drawText(2, startY+1+i, termWidth, FormatLogEntry(entry), dimStyle)
	}
}

func (t *Backend) drawText(x, y, maxX int, text string, style tcell.Style) {
	for _, ch := range text {
		if x >= maxX {
			return
		}
		t.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// barFill returns how many of width cells a progress value fills.
func barFill(progress float64, width int) int {
	if math.IsNaN(progress) || progress <= 0 {
		return 0
	}
	if progress >= 1 {
		return width
	}
	return int(progress*float64(width) + 0.5)
}

func formatVector(vector []float64, value float64) string {
	if len(vector) <= 1 {
		return fmt.Sprintf("%.3f", value)
	}
	parts := make([]string, len(vector))
	for i, v := range vector {
		parts[i] = fmt.Sprintf("%.3f", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
