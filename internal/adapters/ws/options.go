package ws

import "github.com/okian/finesse/pkg/logger"

// Option configures a Hub.
type Option func(*Hub)

// WithTokenVerifier requires clients to pass a valid ?token= query value.
func WithTokenVerifier(v TokenVerifier) Option {
	return func(h *Hub) { h.verify = v }
}

// WithBroadcastBuffer sets how many messages may wait for fan-out.
func WithBroadcastBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.broadcast = make(chan []byte, n)
		}
	}
}

// WithSendBuffer sets the per-client outbound buffer.
func WithSendBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.sendBuf = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.log = l
		}
	}
}
