package engine

import (
	"anaam-stocks/internal/interfaces"
	"anaam-stocks/internal/store"
)

func New(cfg *store.Config, brk interfaces.Broker, c interfaces.Completer) interfaces.Engine {
	return newEngine(cfg, brk, c)
}
