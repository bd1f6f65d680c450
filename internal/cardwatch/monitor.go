package cardwatch

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"astrofiler/internal/logging"
)

// Card describes an attached partition.
type Card struct {
	Device string
	Label  string
	FSType string
}

// Handler is called once per attached partition.
type Handler func(ctx context.Context, card Card) error

// Monitor listens for udev netlink events.
type Monitor struct {
	logger  *slog.Logger
	handler Handler

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// New creates a monitor that calls handler for each added partition.
func New(logger *slog.Logger, handler Handler) *Monitor {
	return &Monitor{
		logger:  logging.NewComponentLogger(logger, "cardwatch"),
		handler: handler,
	}
}

// Start begins listening. A netlink socket that cannot be opened is logged
// and Start returns nil; the monitor then stays idle.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		logging.WarnWithContext(m.logger, "failed to connect to netlink socket; card detection disabled", "netlink_connect_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run on Linux with access to the udev netlink socket"),
			logging.String(logging.FieldImpact, "capture cards must be imported with `frames queue`"),
		)
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("card monitor started",
		logging.String(logging.FieldEventType, "cardwatch_started"),
	)
	return nil
}

// Stop shuts the monitor down. It is safe to call more than once.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("card monitor stopped",
		logging.String(logging.FieldEventType, "cardwatch_stopped"),
	)
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(ctx, uevent)
		case err := <-errs:
			logging.WarnWithContext(m.logger, "netlink monitor error", "netlink_monitor_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "card detection may miss events"),
			)
		}
	}
}

// buildMatcher matches SUBSYSTEM=block, DEVTYPE=partition, ACTION=add.
func buildMatcher() netlink.Matcher {
	action := "add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "block",
			"DEVTYPE":   "partition",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	card := Card{
		Device: deviceName(uevent),
		Label:  uevent.Env["ID_FS_LABEL"],
		FSType: uevent.Env["ID_FS_TYPE"],
	}
	if card.Device == "" {
		m.logger.Debug("ignoring event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}

	m.logger.Info("capture card detected",
		logging.String(logging.FieldEventType, "cardwatch_card_detected"),
		logging.String("device", card.Device),
		logging.String("label", card.Label),
		logging.String("fs_type", card.FSType),
	)

	if m.handler == nil {
		return
	}
	if err := m.handler(ctx, card); err != nil {
		logging.WarnWithContext(m.logger, "card handler failed", "cardwatch_handler_failed",
			logging.Error(err),
			logging.String("device", card.Device),
			logging.String(logging.FieldImpact, "the card was not announced"),
		)
	}
}

// deviceName reads DEVNAME, falling back to the last DEVPATH element.
func deviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		if !strings.HasPrefix(devname, "/") {
			return "/dev/" + devname
		}
		return devname
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return ""
	}
	return "/dev/" + last
}
