// Package console is a line based frontend reading commands from an input
// stream and printing notifications as text.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/cbodonnell/epochwars/client/events"
	"github.com/cbodonnell/epochwars/client/intents"
	"github.com/cbodonnell/epochwars/client/ui"
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/cbodonnell/epochwars/pkg/queue"
	"github.com/cbodonnell/epochwars/pkg/state"
	"golang.org/x/term"
)

const prompt = "> "

// ErrShowState is returned by ParseIntent for the state command.
var ErrShowState = errors.New("show state")

const usage = `commands:
  build <x> <y> <house|villa|tower>
  excavate <x> <y>
  skip
  state
  quit`

// ParseIntent parses a single command line.
func ParseIntent(line string) (intents.Intent, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	switch cmd := strings.ToLower(fields[0]); cmd {
	case "build", "b":
		if len(fields) != 4 {
			return nil, fmt.Errorf("usage: build <x> <y> <building>")
		}
		pos, err := parsePosition(fields[1], fields[2])
		if err != nil {
			return nil, err
		}
		building, err := gametypes.ParseBuilding(fields[3])
		if err != nil {
			return nil, err
		}
		return intents.Build{Position: pos, Building: building}, nil
	case "excavate", "x":
		if len(fields) != 3 {
			return nil, fmt.Errorf("usage: excavate <x> <y>")
		}
		pos, err := parsePosition(fields[1], fields[2])
		if err != nil {
			return nil, err
		}
		return intents.Excavate{Position: pos}, nil
	case "skip", "end":
		if len(fields) != 1 {
			return nil, fmt.Errorf("usage: %s", cmd)
		}
		return intents.Skip{}, nil
	case "quit", "exit":
		return intents.Quit{}, nil
	case "state":
		return nil, ErrShowState
	default:
		return nil, fmt.Errorf("unknown command %q", fields[0])
	}
}

func parsePosition(x, y string) (gametypes.Position, error) {
	px, err := strconv.ParseUint(x, 10, 32)
	if err != nil {
		return gametypes.Position{}, fmt.Errorf("invalid x coordinate %q", x)
	}
	py, err := strconv.ParseUint(y, 10, 32)
	if err != nil {
		return gametypes.Position{}, fmt.Errorf("invalid y coordinate %q", y)
	}
	return gametypes.Position{X: uint32(px), Y: uint32(py)}, nil
}

// Console runs the text frontend.
type Console struct {
	in            io.Reader
	out           io.Writer
	outLock       sync.Mutex
	interactive   bool
	stateManager  state.StateManager
	notifications queue.Queue[events.Notification]
	intents       queue.Queue[intents.Intent]
	board         *ui.Board
	logger        *log.Logger
}

type NewConsoleOptions struct {
	In            io.Reader
	Out           io.Writer
	StateManager  state.StateManager
	Notifications queue.Queue[events.Notification]
	Intents       queue.Queue[intents.Intent]
	// Logger is optional
	Logger *log.Logger
}

func NewConsole(opts NewConsoleOptions) *Console {
	c := &Console{
		in:            opts.In,
		out:           opts.Out,
		stateManager:  opts.StateManager,
		notifications: opts.Notifications,
		intents:       opts.Intents,
		board:         ui.NewBoard(),
		logger:        opts.Logger,
	}
	if f, ok := opts.In.(*os.File); ok {
		c.interactive = term.IsTerminal(int(f.Fd()))
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Run reads commands until end of input, a quit command or a quit
// notification. The intent queue is closed when Run returns.
func (c *Console) Run(ctx context.Context) (err error) {
	defer c.intents.Close()

	ctx, cancel := context.WithCancel(ctx)
	printErrChan := make(chan error, 1)
	go func() {
		printErrChan <- c.printNotifications(ctx, cancel)
	}()
	defer func() {
		cancel()
		if printErr := <-printErrChan; err == nil {
			err = printErr
		}
	}()

	lines := make(chan string)
	readErrChan := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErrChan <- scanner.Err()
	}()

	c.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErrChan:
			if err != nil {
				return fmt.Errorf("failed to read command: %w", err)
			}
			c.logger.Debug("End of input, leaving game")
			return c.intents.Enqueue(intents.Quit{})
		case line := <-lines:
			done, err := c.handleLine(line)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			c.prompt()
		}
	}
}

func (c *Console) handleLine(line string) (done bool, err error) {
	if strings.TrimSpace(line) == "" {
		return false, nil
	}
	intent, err := ParseIntent(line)
	if errors.Is(err, ErrShowState) {
		c.printState()
		return false, nil
	}
	if err != nil {
		c.printf("%v\n%s\n", err, usage)
		return false, nil
	}
	if err := c.intents.Enqueue(intent); err != nil {
		return false, fmt.Errorf("failed to send intent: %w", err)
	}
	_, quit := intent.(intents.Quit)
	return quit, nil
}

// printNotifications prints notifications until the context is done or the
// board says the session is over, in which case it sends Quit and cancels.
func (c *Console) printNotifications(ctx context.Context, cancel context.CancelFunc) error {
	for {
		n, err := c.notifications.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrQueueClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("failed to receive notification: %w", err)
		}

		c.board.Apply(n)
		if text := Describe(n); text != "" {
			c.printf("%s\n", text)
		}
		for {
			if _, ok := c.board.Overlay(); !ok {
				break
			}
			c.board.DismissOverlay()
		}
		if _, ok := n.(events.UpdateBuildings); ok {
			c.printState()
		}
		if c.board.ShouldQuit() {
			if err := c.intents.Enqueue(intents.Quit{}); err != nil && !errors.Is(err, queue.ErrQueueClosed) {
				return fmt.Errorf("failed to send quit intent: %w", err)
			}
			cancel()
			return nil
		}
	}
}

func (c *Console) prompt() {
	if c.interactive {
		c.printf(prompt)
	}
}

func (c *Console) printState() {
	c.printf("%s", FormatState(c.stateManager.Get()))
}

func (c *Console) printf(format string, args ...interface{}) {
	c.outLock.Lock()
	defer c.outLock.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// Describe returns the text printed for a notification, or an empty string
// for notifications with nothing to show.
func Describe(n events.Notification) string {
	switch n := n.(type) {
	case events.Start:
		return "Game started."
	case events.Message:
		return fmt.Sprintf("[%s] %s", n.Title, n.Body)
	case events.ExcavateResult:
		return fmt.Sprintf("[%s] %s", ui.TitleExcavation, ui.ExcavateText(n))
	case events.SetBuilding:
		return fmt.Sprintf("Pending %s at %s.", n.Building, n.Position)
	case events.RequestQuit, events.Quit:
		return "Leaving game."
	default:
		return ""
	}
}

// MaxRenderedMapSize is the largest map width or height FormatState draws.
const MaxRenderedMapSize = 128

// FormatState renders the game state as a map followed by the score board.
// Maps larger than MaxRenderedMapSize in either direction are summarised.
func FormatState(g *gametypes.GameState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Turn %d, towers %d\n", g.Turn, g.TowerCount)
	if g.MapSize.Width > MaxRenderedMapSize || g.MapSize.Height > MaxRenderedMapSize {
		fmt.Fprintf(&sb, "Map %dx%d is too large to display, %d buildings\n", g.MapSize.Width, g.MapSize.Height, len(g.Buildings))
	} else {
		writeMap(&sb, g)
	}
	for _, building := range gametypes.Buildings {
		if price, ok := g.Prices[building]; ok {
			fmt.Fprintf(&sb, "%s: %d\n", building.Title(), price)
		}
	}
	for _, line := range ui.ScoreLines(g.Scores) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func writeMap(sb *strings.Builder, g *gametypes.GameState) {
	for y := uint32(0); y < g.MapSize.Height; y++ {
		for x := uint32(0); x < g.MapSize.Width; x++ {
			building, ok := g.Buildings[gametypes.Position{X: x, Y: y}]
			if !ok {
				sb.WriteByte('.')
				continue
			}
			sb.WriteByte(building.String()[0])
		}
		sb.WriteByte('\n')
	}
}
