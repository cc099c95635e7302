package app

import "context"

// Component 任何「可啟動 / 可關閉」的長生命週期元件。
//   - Run() 為阻塞呼叫，直到元件停止。
//   - Shutdown(ctx) 要求優雅關閉，需尊重 ctx 的期限。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// Closer 把只需要在關閉時釋放的資源（快取連線、async logger）包成 Component。
// Run 會阻塞到 Shutdown 被呼叫為止。
type Closer struct {
	close func() error
	done  chan struct{}
}

func NewCloser(close func() error) *Closer {
	return &Closer{close: close, done: make(chan struct{})}
}

func (c *Closer) Run() error {
	<-c.done
	return nil
}

func (c *Closer) Shutdown(context.Context) error {
	select {
	case <-c.done:
		return nil
	default:
		close(c.done)
	}
	return c.close()
}
