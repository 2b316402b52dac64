package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/dhivyapriya/sos-guardian/internal/logger"
)

// DispatchErrorKind classifies alert delivery failures.
type DispatchErrorKind string

const (
	// DispatchNoValidRecipients means the filtered recipient list was empty;
	// no connection was attempted.
	DispatchNoValidRecipients DispatchErrorKind = "no_valid_recipients"
	// DispatchConfigMissing means a required transport setting is absent.
	DispatchConfigMissing DispatchErrorKind = "config_missing"
	// DispatchConnectFailed means the SMTP connection could not be established.
	DispatchConnectFailed DispatchErrorKind = "connect_failed"
	// DispatchAuthFailed means the server rejected the sender credentials.
	DispatchAuthFailed DispatchErrorKind = "auth_failed"
	// DispatchSendFailed means the message itself was rejected mid-session.
	DispatchSendFailed DispatchErrorKind = "send_failed"
)

// DispatchError is a classified delivery failure carrying its cause.
type DispatchError struct {
	// Kind is the failure classification.
	Kind DispatchErrorKind
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}

	return string(e.Kind)
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *DispatchError) Unwrap() error {
	return e.Cause
}

// Transport delivers a composed alert over some mail channel. The SMTP
// implementation is used in production; tests inject counting fakes.
type Transport interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// implicitTLSPort is the well-known SMTPS port that expects TLS from the
// first byte; every other port gets a plaintext connect followed by a
// mandatory STARTTLS upgrade.
const implicitTLSPort = 465

// UseImplicitTLS selects the connection mode from the configured port.
// This is the single place the port-to-mode decision is made.
func UseImplicitTLS(port int) bool {
	return port == implicitTLSPort
}

// SMTPConfig holds the outbound mail settings. All fields except Timeout
// are required.
type SMTPConfig struct {
	// Host of the SMTP server.
	Host string
	// Port of the SMTP server; selects the connection mode.
	Port int
	// SenderAddress is both the login username and the From address.
	SenderAddress string
	// SenderPassword is the login credential (an app password, typically).
	SenderPassword string
	// Timeout bounds connect, login and send together.
	Timeout time.Duration
}

// DefaultSMTPTimeout bounds one delivery attempt end to end.
const DefaultSMTPTimeout = 30 * time.Second

// Validate reports the first missing required setting.
func (c SMTPConfig) Validate() error {
	var missing string

	switch {
	case c.Host == "":
		missing = "host"
	case c.Port == 0:
		missing = "port"
	case c.SenderAddress == "":
		missing = "sender address"
	case c.SenderPassword == "":
		missing = "sender password"
	default:
		return nil
	}

	return &DispatchError{
		Kind:  DispatchConfigMissing,
		Cause: fmt.Errorf("smtp %s is not configured", missing),
	}
}

// SMTPTransport sends alerts through an SMTP server via go-mail.
type SMTPTransport struct {
	// cfg is the validated transport configuration.
	cfg SMTPConfig
}

// NewSMTPTransport validates the configuration and returns the transport.
// Configuration problems surface here, before any network attempt.
func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSMTPTimeout
	}

	return &SMTPTransport{cfg: cfg}, nil
}

// Send connects, authenticates and delivers the message once. There is no
// automatic retry; re-triggering the SOS is the retry path.
func (t *SMTPTransport) Send(ctx context.Context, recipients []string, subject, body string) error {
	options := []mail.Option{
		mail.WithPort(t.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(t.cfg.SenderAddress),
		mail.WithPassword(t.cfg.SenderPassword),
		mail.WithTimeout(t.cfg.Timeout),
	}

	if UseImplicitTLS(t.cfg.Port) {
		options = append(options, mail.WithSSL())
	} else {
		options = append(options, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(t.cfg.Host, options...)
	if err != nil {
		return &DispatchError{Kind: DispatchConfigMissing, Cause: err}
	}

	msg := mail.NewMsg()
	if err := msg.From(t.cfg.SenderAddress); err != nil {
		return &DispatchError{Kind: DispatchConfigMissing, Cause: err}
	}

	if err := msg.To(recipients...); err != nil {
		return &DispatchError{Kind: DispatchSendFailed, Cause: err}
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := client.DialWithContext(ctx); err != nil {
		return &DispatchError{Kind: classifyDialError(err), Cause: err}
	}
	//nolint:errcheck // The session is done either way once Send returns.
	defer client.Close()

	if err := client.Send(msg); err != nil {
		return &DispatchError{Kind: DispatchSendFailed, Cause: err}
	}

	return nil
}

// classifyDialError splits authentication rejections from plain
// connectivity failures based on the server's wording.
func classifyDialError(err error) DispatchErrorKind {
	text := strings.ToLower(err.Error())
	if strings.Contains(text, "auth") || strings.Contains(text, "535") {
		return DispatchAuthFailed
	}

	return DispatchConnectFailed
}

// Dispatcher filters recipients and performs the single delivery attempt
// for a cycle.
type Dispatcher struct {
	// transport performs the actual delivery.
	transport Transport
}

// NewDispatcher wraps a transport.
func NewDispatcher(transport Transport) *Dispatcher {
	return &Dispatcher{transport: transport}
}

// ErrNoTransport indicates the dispatcher was built without a transport.
var ErrNoTransport = errors.New("notification transport is not configured")

// Available reports whether a transport is wired in.
func (d *Dispatcher) Available() bool {
	return d != nil && d.transport != nil
}

// Dispatch sends the body to every recipient containing an "@". An empty
// filtered list returns DispatchNoValidRecipients without touching the
// network. Exactly one send attempt is made.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []string, subject, body string) error {
	if !d.Available() {
		return ErrNoTransport
	}

	valid := make([]string, 0, len(recipients))

	for _, r := range recipients {
		if strings.Contains(r, "@") {
			valid = append(valid, r)
		}
	}

	if len(valid) == 0 {
		return &DispatchError{Kind: DispatchNoValidRecipients}
	}

	logger.InfoKV(ctx, "Dispatching SOS alert", "recipients", len(valid))

	return d.transport.Send(ctx, valid, subject, body)
}
