package markupcmd

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-wikithread/internal/commands"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// Services groups the dependencies of the markup command handlers. Render
// handlers are only built when both Loader and Documents are set.
type Services struct {
	Markup    interfaces.MarkupService
	Documents interfaces.DocumentService
	Loader    interfaces.DocumentLoader
}

// HandlerSet groups the handlers produced by RegisterMarkupCommands.
type HandlerSet struct {
	Parse    *ParseContentHandler
	Validate *ValidateMarkupHandler
	Render   *RenderDocumentHandler
}

// Handlers lists the constructed handlers in registration order.
func (s *HandlerSet) Handlers() []any {
	if s == nil {
		return nil
	}
	handlers := []any{s.Parse, s.Validate}
	if s.Render != nil {
		handlers = append(handlers, s.Render)
	}
	return handlers
}

// Subscribe attaches every handler to the go-command dispatcher so messages
// sent with dispatcher.Dispatch reach them.
func (s *HandlerSet) Subscribe() []commands.CommandSubscription {
	if s == nil {
		return nil
	}
	subs := []commands.CommandSubscription{
		dispatcher.SubscribeCommand(s.Parse),
		dispatcher.SubscribeCommand(s.Validate),
	}
	if s.Render != nil {
		subs = append(subs, dispatcher.SubscribeCommand(s.Render))
	}
	return subs
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	parseOpts    []commands.HandlerOption[ParseContentCommand]
	validateOpts []commands.HandlerOption[ValidateMarkupCommand]
	renderOpts   []commands.HandlerOption[RenderDocumentCommand]
}

// WithParseHandlerOptions forwards options to the ParseContentHandler constructor.
func WithParseHandlerOptions(opts ...commands.HandlerOption[ParseContentCommand]) Option {
	return func(cfg *options) {
		cfg.parseOpts = append(cfg.parseOpts, opts...)
	}
}

// WithValidateHandlerOptions forwards options to the ValidateMarkupHandler constructor.
func WithValidateHandlerOptions(opts ...commands.HandlerOption[ValidateMarkupCommand]) Option {
	return func(cfg *options) {
		cfg.validateOpts = append(cfg.validateOpts, opts...)
	}
}

// WithRenderHandlerOptions forwards options to the RenderDocumentHandler constructor.
func WithRenderHandlerOptions(opts ...commands.HandlerOption[RenderDocumentCommand]) Option {
	return func(cfg *options) {
		cfg.renderOpts = append(cfg.renderOpts, opts...)
	}
}

// RegisterMarkupCommands builds the markup and document command handlers and
// registers them with reg when it is not nil.
func RegisterMarkupCommands(reg commands.CommandRegistry, services Services, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if services.Markup == nil {
		return nil, errors.New("markup command registration: markup service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	markupLogger := commands.CommandLogger(provider, commands.ModuleMarkup)
	set := &HandlerSet{
		Parse:    NewParseContentHandler(services.Markup, markupLogger, cfg.parseOpts...),
		Validate: NewValidateMarkupHandler(services.Markup, markupLogger, cfg.validateOpts...),
	}
	if services.Loader != nil && services.Documents != nil {
		set.Render = NewRenderDocumentHandler(services.Loader, services.Documents, commands.CommandLogger(provider, commands.ModuleDocuments), cfg.renderOpts...)
	}

	if reg != nil {
		for _, handler := range set.Handlers() {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// Dispatcher subscribes markup handlers to the process wide go-command
// dispatcher. It satisfies commands.CommandDispatcher.
type Dispatcher struct{}

var _ commands.CommandDispatcher = Dispatcher{}

// RegisterCommand subscribes handler when it is one of the markup handlers.
func (Dispatcher) RegisterCommand(handler any) (commands.CommandSubscription, error) {
	switch h := handler.(type) {
	case *ParseContentHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *ValidateMarkupHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *RenderDocumentHandler:
		return dispatcher.SubscribeCommand(h), nil
	default:
		return nil, fmt.Errorf("markup command dispatcher: unsupported handler %T", handler)
	}
}
