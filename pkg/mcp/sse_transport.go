package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/haloforge/aikit/pkg/providerutils/streaming"
)

// SSETransport implements the Transport interface for the MCP HTTP+SSE
// transport: a long-lived GET request streams Server-Sent Events from the
// server, the first of which is an "endpoint" event naming the URL the
// client must POST JSON-RPC requests to; subsequent "message" events carry
// JSON-RPC responses and notifications, decoupled from the POST that
// triggered them.
type SSETransport struct {
	baseURL string
	client  *http.Client
	config  TransportConfig

	mu         sync.Mutex
	connected  bool
	messageURL string
	cancel     context.CancelFunc

	received chan *MCPMessage
	streamErr chan error
}

// SSETransportConfig contains configuration for the SSE transport.
type SSETransportConfig struct {
	// URL is the MCP server's SSE endpoint (the GET URL).
	URL string

	// Config is the base transport configuration.
	Config TransportConfig
}

// NewSSETransport creates a new SSE transport.
func NewSSETransport(cfg SSETransportConfig) *SSETransport {
	return &SSETransport{
		baseURL:   cfg.URL,
		client:    &http.Client{},
		config:    cfg.Config,
		received:  make(chan *MCPMessage, 16),
		streamErr: make(chan error, 1),
	}
}

// Connect opens the SSE stream and blocks until the server's "endpoint"
// event has been received, so Send has somewhere to POST to.
func (t *SSETransport) Connect(ctx context.Context) error {
	t.mu.Lock()
	if t.connected {
		t.mu.Unlock()
		return fmt.Errorf("already connected")
	}
	t.mu.Unlock()

	streamCtx, cancel := context.WithCancel(context.Background())

	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, t.baseURL, nil)
	if err != nil {
		cancel()
		return NewTransportError("failed to create SSE request", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	for k, v := range t.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		cancel()
		return NewTransportError("failed to open SSE stream", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		cancel()
		return NewTransportError(fmt.Sprintf("SSE stream returned HTTP %d: %s", resp.StatusCode, string(body)), nil)
	}

	endpointReady := make(chan error, 1)
	go t.pump(resp.Body, endpointReady)

	select {
	case err := <-endpointReady:
		if err != nil {
			cancel()
			return NewTransportError("failed to receive endpoint event", err)
		}
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}

	t.mu.Lock()
	t.connected = true
	t.cancel = cancel
	t.mu.Unlock()

	return nil
}

// pump reads SSE events off the stream for the lifetime of the connection.
// The first "endpoint" event resolves endpointReady; every "message" event
// after that is decoded as an MCPMessage and delivered on t.received.
func (t *SSETransport) pump(body io.ReadCloser, endpointReady chan<- error) {
	defer body.Close()

	parser := streaming.NewSSEParser(body)
	sawEndpoint := false

	for {
		event, err := parser.Next()
		if err != nil {
			if !sawEndpoint {
				endpointReady <- err
			}
			select {
			case t.streamErr <- err:
			default:
			}
			close(t.received)
			return
		}

		switch event.Event {
		case "endpoint":
			messageURL, resolveErr := t.resolveEndpoint(event.Data)
			if resolveErr != nil {
				endpointReady <- resolveErr
				continue
			}
			t.mu.Lock()
			t.messageURL = messageURL
			t.mu.Unlock()
			sawEndpoint = true
			endpointReady <- nil

		case "message", "":
			var msg MCPMessage
			if err := json.Unmarshal([]byte(event.Data), &msg); err != nil {
				continue // malformed frame, skip rather than kill the stream
			}
			t.received <- &msg
		}
	}
}

// resolveEndpoint resolves a (possibly relative) endpoint path against the
// SSE stream's own URL, per the MCP HTTP+SSE transport spec.
func (t *SSETransport) resolveEndpoint(raw string) (string, error) {
	base, err := url.Parse(t.baseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// Send posts a JSON-RPC message to the endpoint learned from Connect. The
// response, if any, arrives asynchronously as a "message" SSE event and is
// read via Receive, not from this POST's own response body.
func (t *SSETransport) Send(ctx context.Context, message *MCPMessage) error {
	t.mu.Lock()
	messageURL := t.messageURL
	connected := t.connected
	t.mu.Unlock()

	if !connected {
		return NewTransportError("not connected", nil)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return NewTransportError("failed to marshal message", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, messageURL, bytes.NewReader(data))
	if err != nil {
		return NewTransportError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range t.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return NewTransportError("failed to send request", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return NewTransportError(fmt.Sprintf("HTTP error %d posting to %s", resp.StatusCode, messageURL), nil)
	}
	return nil
}

// Receive returns the next message delivered over the SSE stream.
func (t *SSETransport) Receive(ctx context.Context) (*MCPMessage, error) {
	select {
	case msg, ok := <-t.received:
		if !ok {
			select {
			case err := <-t.streamErr:
				return nil, err
			default:
				return nil, io.EOF
			}
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close tears down the SSE stream.
func (t *SSETransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.connected = false
	return nil
}

// IsConnected returns true once the endpoint event has been received.
func (t *SSETransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}
