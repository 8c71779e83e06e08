package swap

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"fxswap/internal/debounce"
	"fxswap/internal/domain"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const (
	DefaultDebounce      = time.Second
	defaultSubmitTimeout = 30 * time.Second
)

type Quoter interface {
	Estimate(ctx context.Context, fromSymbol, toSymbol, amount string, mode domain.RateMode) domain.QuoteResult
}

type Swapper interface {
	CreateSwap(ctx context.Context, req domain.SwapRequest) error
}

type ControllerConfig struct {
	Debounce      time.Duration
	SubmitTimeout time.Duration
	Clock         clockwork.Clock
	// OnChange, when set, is called from the event loop with every new session state.
	OnChange func(Session)
}

type message struct {
	event Event
	reply chan result
}

type result struct {
	session Session
	err     error
}

// Controller owns one Session. All events, user or internal, are applied by a
// single goroutine; quote and swap calls run on their own goroutines and post
// their results back as events.
type Controller struct {
	env           Env
	quoter        Quoter
	swapper       Swapper
	clock         clockwork.Clock
	submitTimeout time.Duration
	onChange      func(Session)
	debouncer     *debounce.Debouncer[domain.QuoteRequest]

	inbox    chan message
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	inflight sync.WaitGroup

	state        atomic.Pointer[Session]
	lastActivity atomic.Int64
}

func NewController(initial Session, env Env, quoter Quoter, swapper Swapper, cfg ControllerConfig) *Controller {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = defaultSubmitTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		env:           env,
		quoter:        quoter,
		swapper:       swapper,
		clock:         cfg.Clock,
		submitTimeout: cfg.SubmitTimeout,
		onChange:      cfg.OnChange,
		inbox:         make(chan message),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
	c.debouncer = debounce.New(cfg.Debounce, func(req domain.QuoteRequest) {
		c.post(QuoteDue{Request: req})
	}, debounce.WithClock(cfg.Clock))

	initial.ValidationErrors = Validate(initial, env.Rules)
	c.state.Store(&initial)
	c.touch()

	go c.run()
	return c
}

// Snapshot returns the latest session state.
func (c *Controller) Snapshot() Session {
	return *c.state.Load()
}

func (c *Controller) ID() string {
	return c.Snapshot().ID.String()
}

func (c *Controller) LastActivity() time.Time {
	return time.Unix(0, c.lastActivity.Load())
}

// Dispatch applies a user event and returns the resulting session.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (Session, error) {
	c.touch()
	reply := make(chan result, 1)

	select {
	case c.inbox <- message{event: ev, reply: reply}:
	case <-c.done:
		return c.Snapshot(), domain.ErrSessionClosed
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}

	select {
	case r := <-reply:
		return r.session, r.err
	case <-c.done:
		return c.Snapshot(), domain.ErrSessionClosed
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}
}

func (c *Controller) EditAmount(ctx context.Context, field domain.Field, value string) (Session, error) {
	return c.Dispatch(ctx, EditAmount{Field: field, Value: value})
}

func (c *Controller) ChangeDestination(ctx context.Context, symbol string) (Session, error) {
	return c.Dispatch(ctx, ChangeDestination{Symbol: symbol})
}

func (c *Controller) SelectRateMode(ctx context.Context, mode domain.RateMode) (Session, error) {
	return c.Dispatch(ctx, SelectRateMode{Mode: mode})
}

func (c *Controller) Submit(ctx context.Context) (Session, error) {
	return c.Dispatch(ctx, Submit{})
}

// Close stops the event loop, cancels the pending debounce and waits for
// in-flight calls to return. Results arriving afterwards are dropped.
func (c *Controller) Close() {
	c.cancel()
	<-c.done
	c.inflight.Wait()
}

func (c *Controller) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Controller) touch() {
	c.lastActivity.Store(c.clock.Now().UnixNano())
}

func (c *Controller) run() {
	defer close(c.done)
	for {
		select {
		case <-c.ctx.Done():
			c.debouncer.Stop()
			return
		case msg := <-c.inbox:
			c.handle(msg)
		}
	}
}

func (c *Controller) handle(msg message) {
	next, effects, err := Apply(c.Snapshot(), msg.event, c.env)
	if err == nil {
		c.state.Store(&next)
		if c.onChange != nil {
			c.onChange(next)
		}
		for _, eff := range effects {
			c.execute(eff)
		}
	}
	if msg.reply != nil {
		msg.reply <- result{session: c.Snapshot(), err: err}
	}
}

func (c *Controller) execute(eff Effect) {
	switch e := eff.(type) {
	case ScheduleQuote:
		c.debouncer.Call(e.Request)
	case FetchQuote:
		c.inflight.Add(1)
		go func(req domain.QuoteRequest) {
			defer c.inflight.Done()
			res := c.quoter.Estimate(c.ctx, req.FromSymbol, req.ToSymbol, req.Amount, req.Mode)
			c.post(QuoteResolved{Request: req, Result: res})
		}(e.Request)
	case SendSwap:
		c.inflight.Add(1)
		go func(req domain.SwapRequest) {
			defer c.inflight.Done()
			ctx, cancel := context.WithTimeout(c.ctx, c.submitTimeout)
			defer cancel()
			err := c.swapper.CreateSwap(ctx, req)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"session": c.ID(),
					"from":    req.FromSymbol,
					"to":      req.ToSymbol,
					"fixed":   req.FixedRate,
				}).Error("swap request failed")
			}
			c.post(SubmitResolved{Err: err})
		}(e.Request)
	}
}

// post feeds an internal event to the loop; it gives up once the controller is closed.
func (c *Controller) post(ev Event) {
	select {
	case c.inbox <- message{event: ev}:
	case <-c.ctx.Done():
	}
}
