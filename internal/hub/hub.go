package hub

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/DoyleJ11/volleyball-arena/internal/arena"
	"github.com/DoyleJ11/volleyball-arena/internal/session"
)

type HubMsg interface{ isHubMsg() }

type CreateSession struct {
	Code   string
	Config arena.Config
	Reply  chan *session.Session
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

type EnsureSession struct {
	Code   string
	Config arena.Config // only used if creation happens
	Reply  chan *session.Session
}

type RemoveSession struct {
	Code string
}

type ListSessions struct {
	Reply chan []string
}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	opts     session.Options
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (EnsureSession) isHubMsg() {}
func (RemoveSession) isHubMsg() {}
func (ListSessions) isHubMsg()  {}
func (ShutdownHub) isHubMsg()   {}

// NewHub starts the registry. opts is handed to every session it creates;
// set opts.Seed rather than opts.Rand for reproducible arenas.
func NewHub(parent context.Context, opts session.Options) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		opts:     opts,
		log:      opts.Logger.Named("hub"),
		ctx:      ctx,
		cancel:   cancel,
	}
	h.opts.Logger = opts.Logger.Named("session")
	// a Sampler is not safe to share between session goroutines
	h.opts.Rand = nil
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				msg.Reply <- h.ensure(msg.Code, msg.Config)

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // May be nil

			case EnsureSession:
				msg.Reply <- h.ensure(msg.Code, msg.Config)

			case RemoveSession:
				if s := h.sessions[msg.Code]; s != nil {
					s.Inbox() <- session.Shutdown{}
					delete(h.sessions, msg.Code)
					h.log.Info("arena removed", zap.String("arena", msg.Code))
				}

			case ListSessions:
				codes := make([]string, 0, len(h.sessions))
				for code := range h.sessions {
					codes = append(codes, code)
				}
				sort.Strings(codes)
				msg.Reply <- codes

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) ensure(code string, cfg arena.Config) *session.Session {
	if s := h.sessions[code]; s != nil {
		return s
	}
	s := session.NewSession(h.ctx, code, cfg, h.opts)
	h.sessions[code] = s
	h.log.Info("arena created", zap.String("arena", code), zap.Int("max_environment_steps", cfg.MaxEnvironmentSteps))
	return s
}

func (h *Hub) shutdown() {
	for _, s := range h.sessions {
		select {
		case s.Inbox() <- session.Shutdown{}:
		default:
			// inbox full; cancelling the hub context stops it anyway
		}
	}
	clear(h.sessions)
	h.cancel()
}
