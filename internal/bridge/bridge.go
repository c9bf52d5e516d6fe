package bridge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/form"
)

// Event names.
const (
	EventFocus    = "field:focus"
	EventChange   = "field:change"
	EventBlur     = "field:blur"
	EventKeyPress = "field:keypress"
	EventSubmit   = "form:submit"
	EventSet      = "form:set"
	EventGet      = "form:get"

	EventView      = "form:view"
	EventDestroyed = "form:destroyed"
	EventError     = "form:error"
)

// Message is the payload of incoming events.
type Message struct {
	Form  string `json:"form"`
	Path  string `json:"path,omitempty"`
	Value any    `json:"value,omitempty"`
	Key   string `json:"key,omitempty"`
}

// ErrorMessage is the payload of form:error.
type ErrorMessage struct {
	Form  string `json:"form,omitempty"`
	Event string `json:"event"`
	Error string `json:"error"`
}

type handler func(f *form.Form, path fieldpath.Path, m Message)

type route struct {
	needsPath bool
	fn        handler
}

// Bridge relays events between a Conn and a form registry.
type Bridge struct {
	conn   Conn
	forms  *form.Registry
	only   []string
	logger *slog.Logger

	mu     sync.Mutex
	cancel func()
}

// New returns a bridge for the named forms, or for every form when names
// is empty.
func New(conn Conn, forms *form.Registry, names []string, logger *slog.Logger) *Bridge {
	return &Bridge{
		conn:   conn,
		forms:  forms,
		only:   slices.Clone(names),
		logger: logger.With("component", "bridge"),
	}
}

func (b *Bridge) routes() map[string]route {
	return map[string]route{
		EventFocus:    {needsPath: true, fn: func(f *form.Form, p fieldpath.Path, _ Message) { f.Focus(p) }},
		EventChange:   {needsPath: true, fn: func(f *form.Form, p fieldpath.Path, m Message) { f.Change(p, m.Value) }},
		EventBlur:     {needsPath: true, fn: func(f *form.Form, p fieldpath.Path, _ Message) { f.Blur(p) }},
		EventKeyPress: {needsPath: true, fn: func(f *form.Form, p fieldpath.Path, m Message) { f.KeyPress(p, m.Key) }},
		EventSet:      {needsPath: true, fn: func(f *form.Form, p fieldpath.Path, m Message) { f.SetValue(p, m.Value) }},
		EventSubmit:   {fn: func(f *form.Form, _ fieldpath.Path, _ Message) { f.Submit() }},
		EventGet:      {fn: func(f *form.Form, _ fieldpath.Path, _ Message) { b.conn.Emit(EventView, f.View()) }},
	}
}

// Start registers event handlers, subscribes to store notifications and
// pushes the current view of every bridged form.
func (b *Bridge) Start() {
	for event, r := range b.routes() {
		b.conn.On(event, func(args ...any) {
			b.handle(event, r, args)
		})
	}

	cancel := b.forms.Store().Subscribe(b.onStoreChange)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	for _, name := range b.forms.Names() {
		if f, ok := b.forms.Lookup(name); ok && b.bridged(name) {
			b.conn.Emit(EventView, f.View())
		}
	}
	b.logger.Info("Bridge started.", "forms", b.only)
}

// Close unsubscribes from the store and closes the connection.
func (b *Bridge) Close() {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	b.conn.Close()
}

func (b *Bridge) bridged(name string) bool {
	return len(b.only) == 0 || slices.Contains(b.only, name)
}

// onStoreChange runs inside a form action, so it renders from stored
// state and never calls the form.
func (b *Bridge) onStoreChange(keys []string) {
	store := b.forms.Store()
	for _, name := range keys {
		if !b.bridged(name) {
			continue
		}
		st, ok := store.Get(name)
		if !ok {
			b.conn.Emit(EventDestroyed, Message{Form: name})
			continue
		}
		b.conn.Emit(EventView, form.RenderView(name, st))
	}
}

func (b *Bridge) handle(event string, r route, args []any) {
	m, err := decode(args)
	if err != nil {
		b.fail(event, "", err)
		return
	}
	logger := b.logger.With("event", event, "form", m.Form)

	if !b.bridged(m.Form) {
		b.fail(event, m.Form, fmt.Errorf("form %q is not bridged", m.Form))
		return
	}
	f, ok := b.forms.Lookup(m.Form)
	if !ok {
		b.fail(event, m.Form, fmt.Errorf("form %q not found", m.Form))
		return
	}

	var path fieldpath.Path
	if r.needsPath {
		if path, err = fieldpath.Parse(m.Path); err != nil {
			b.fail(event, m.Form, err)
			return
		}
		if _, ok := f.Field(path); !ok {
			b.fail(event, m.Form, fmt.Errorf("%w: %s", form.ErrUnknownField, path))
			return
		}
	}

	logger.Debug("Applying bridged event.", "path", m.Path)
	if err := apply(r.fn, f, path, m); err != nil {
		b.fail(event, m.Form, err)
	}
}

// apply turns a panic raised by the form, such as a field removed after
// the lookup above, into an error.
func apply(fn handler, f *form.Form, path fieldpath.Path, m Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	fn(f, path, m)
	return nil
}

func (b *Bridge) fail(event, name string, err error) {
	b.logger.Warn("Rejected bridged event.", "event", event, "form", name, "error", err)
	b.conn.Emit(EventError, ErrorMessage{Form: name, Event: event, Error: err.Error()})
}

// decode accepts the first event argument as a decoded JSON object or raw
// JSON bytes.
func decode(args []any) (Message, error) {
	var m Message
	if len(args) == 0 {
		return m, fmt.Errorf("event has no payload")
	}

	var raw []byte
	switch v := args[0].(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		var err error
		if raw, err = json.Marshal(v); err != nil {
			return m, fmt.Errorf("failed to encode payload: %w", err)
		}
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("failed to decode payload: %w", err)
	}
	if m.Form == "" {
		return m, fmt.Errorf("payload is missing 'form'")
	}
	return m, nil
}
