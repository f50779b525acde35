package autocomplete

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"teleka/models"

	"go.uber.org/zap"
)

// DefaultDebounce is the input quiet period before suggestions are fetched.
const DefaultDebounce = 200 * time.Millisecond

// ErrNoSuggestion is returned when selecting an index that is not rendered.
var ErrNoSuggestion = errors.New("no suggestion at index")

// Key is a navigation key understood by the controller.
type Key int

const (
	KeyArrowDown Key = iota
	KeyArrowUp
	KeyEnter
	KeyEscape
)

// Options configures a Controller.
type Options struct {
	Suggester *Suggester
	Nearby    *NearbyProvider
	Recent    *RecentPlaces
	Selection SelectionHandler
	// OnComplete runs after every successful selection.
	OnComplete func()
	Debounce   time.Duration
	Logger     *zap.Logger
}

// DropdownView is a snapshot of what the dropdown shows.
type DropdownView struct {
	Visible bool
	Loading bool
	Rows    []Row
}

// Controller drives one input field: debounced suggestions, the dropdown,
// keyboard navigation and selection. Fetches run on their own goroutines and
// the latest result to arrive wins.
type Controller struct {
	ctx  context.Context
	opts Options

	debouncer *Debouncer
	inflight  sync.WaitGroup

	mu          sync.Mutex
	text        string
	token       string
	suggestions []models.Suggestion
	visible     bool
	loading     int
	// highlight indexes the interactive rows, -1 when none is highlighted.
	highlight int
}

// NewController binds a controller. ctx scopes every fetch it starts.
func NewController(ctx context.Context, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		ctx:       ctx,
		opts:      opts,
		debouncer: NewDebouncer(opts.Debounce),
		token:     NewSessionToken(),
		highlight: -1,
	}
}

// Text is the current input value.
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Token is the current session token.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Input handles a change of the input text. An empty value lists nearby
// places right away; anything else is debounced.
func (c *Controller) Input(text string) {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()

	query := strings.TrimSpace(text)
	if query == "" {
		c.debouncer.Cancel()
		c.hide()
		c.fetchNearby()
		return
	}
	if c.opts.Suggester == nil {
		return
	}

	c.debouncer.Trigger(func() {
		c.run(func(token string) []models.Suggestion {
			return c.opts.Suggester.Suggest(c.ctx, query, token)
		})
	})
}

// Focus handles the input gaining focus.
func (c *Controller) Focus() {
	c.Input(c.Text())
}

func (c *Controller) fetchNearby() {
	if c.opts.Nearby == nil {
		return
	}
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.run(func(token string) []models.Suggestion {
			return c.opts.Nearby.Nearby(c.ctx, token)
		})
	}()
}

func (c *Controller) run(fetch func(token string) []models.Suggestion) {
	c.mu.Lock()
	c.loading++
	token := c.token
	c.mu.Unlock()

	items := fetch(token)

	c.mu.Lock()
	c.loading--
	c.showLocked(items)
	c.mu.Unlock()
}

// Wait blocks until pending debounced work and in-flight fetches are done.
func (c *Controller) Wait() {
	c.debouncer.Wait()
	c.inflight.Wait()
}

func (c *Controller) showLocked(items []models.Suggestion) {
	if len(items) == 0 {
		c.hideLocked()
		return
	}
	c.suggestions = items
	c.visible = true
	c.highlight = -1
}

func (c *Controller) hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hideLocked()
}

func (c *Controller) hideLocked() {
	c.visible = false
	c.suggestions = nil
	c.highlight = -1
}

// interactiveLocked lists the suggestion indexes of non-error rows.
func (c *Controller) interactiveLocked() []int {
	if !c.visible {
		return nil
	}
	var idx []int
	for i, s := range c.suggestions {
		if !s.Error {
			idx = append(idx, i)
		}
	}
	return idx
}

// Key handles a navigation key. Down stops at the last row, Up from the
// first row (or from no highlight) wraps to the last one.
func (c *Controller) Key(k Key) {
	c.mu.Lock()
	items := c.interactiveLocked()
	if len(items) == 0 {
		c.mu.Unlock()
		return
	}

	switch k {
	case KeyArrowDown:
		c.highlight = min(len(items)-1, c.highlight+1)
	case KeyArrowUp:
		if c.highlight <= 0 {
			c.highlight = len(items) - 1
		} else {
			c.highlight--
		}
	case KeyEscape:
		c.hideLocked()
	case KeyEnter:
		if c.highlight < 0 {
			break
		}
		index := items[c.highlight]
		c.mu.Unlock()
		if err := c.Select(c.ctx, index); err != nil {
			c.opts.Logger.Debug("enter selection failed", zap.Error(err))
		}
		return
	}
	c.mu.Unlock()
}

// Click handles a click anywhere in the document; inside reports whether it
// landed within the input's wrapper.
func (c *Controller) Click(inside bool) {
	if !inside {
		c.hide()
	}
}

// ClickRow handles a click on a rendered row.
func (c *Controller) ClickRow(index int) error {
	return c.Select(c.ctx, index)
}

// Select resolves the suggestion at index, writes its display text into the
// input, records it as a recent place, rotates the session token and runs
// OnComplete. Error placeholders are ignored.
func (c *Controller) Select(ctx context.Context, index int) error {
	c.mu.Lock()
	if index < 0 || index >= len(c.suggestions) {
		c.mu.Unlock()
		return ErrNoSuggestion
	}
	item := c.suggestions[index]
	token := c.token
	c.mu.Unlock()

	if item.Error {
		return nil
	}

	place := models.PlaceFromSuggestion(item)
	if c.opts.Selection != nil {
		place = c.opts.Selection.Resolve(ctx, item, token)
	}

	c.mu.Lock()
	c.text = place.DisplayName()
	c.hideLocked()
	c.mu.Unlock()

	if c.opts.Recent != nil {
		if err := c.opts.Recent.Save(ctx, place); err != nil {
			c.opts.Logger.Warn("saving recent place failed", zap.Error(err))
		}
	}

	c.mu.Lock()
	c.token = NewSessionToken()
	c.mu.Unlock()

	if c.opts.OnComplete != nil {
		c.opts.OnComplete()
	}
	return nil
}

// View returns the current dropdown state.
func (c *Controller) View() DropdownView {
	c.mu.Lock()
	defer c.mu.Unlock()

	highlighted := -1
	if items := c.interactiveLocked(); c.highlight >= 0 && c.highlight < len(items) {
		highlighted = items[c.highlight]
	}
	v := DropdownView{Visible: c.visible, Loading: c.loading > 0}
	if c.visible {
		v.Rows = BuildRows(c.suggestions, highlighted)
	}
	return v
}
