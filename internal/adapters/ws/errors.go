package ws

import "errors"

// ErrBackpressure is returned by Publish when the broadcast buffer is full.
var ErrBackpressure = errors.New("websocket broadcast buffer full")
