package stream

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestConnectionStateUnderConcurrency(t *testing.T) {
	c := &Client{pingInterval: time.Minute, log: zerolog.Nop()}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = c.IsConnected()
				_ = c.current()
			}
		}()
	}
	for i := 0; i < 1000; i++ {
		if err := c.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	}
	wg.Wait()

	if c.IsConnected() {
		t.Fatal("closed client reports connected")
	}
}

func TestSubscribeRequiresConnection(t *testing.T) {
	c := &Client{symbols: []string{"AAPL"}, log: zerolog.Nop()}
	if err := c.Subscribe(context.Background()); err == nil {
		t.Fatal("expected error when subscribing without a connection")
	}
}
