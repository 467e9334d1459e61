package storage

import "context"

// Router selects the backend of an operation from the connection state.
type Router struct {
	Conn     ConnectorInterface
	Store    Backend
	Fallback Backend
}

func NewRouter(conn ConnectorInterface, store *RedisBackend, fallback *MemoryBackend) *Router {
	return &Router{
		Conn:     conn,
		Store:    store,
		Fallback: fallback,
	}
}

// ForRead attempts one reconnect when the store is down, then picks.
func (r *Router) ForRead(ctx context.Context) Backend {
	if !r.Conn.IsConnected() {
		r.Conn.Connect(ctx)
	}
	return r.ForWrite()
}

// ForWrite picks without reconnecting.
func (r *Router) ForWrite() Backend {
	if r.Conn.IsConnected() {
		return r.Store
	}
	return r.Fallback
}
