package uibridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/runoshun/cursor-kanban/internal/domain"
	"github.com/runoshun/cursor-kanban/internal/infra/watcher"
)

// maxLineSize bounds one request line.
const maxLineSize = 4 << 20

// Serve reads newline-delimited requests from r and writes responses to w
// until r reaches EOF or ctx is cancelled. With watching enabled, external
// changes to the session project push an unsolicited boardState.
func (b *Bridge) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	enc := &encoder{enc: json.NewEncoder(w)}
	feed := &boardFeed{bridge: b, enc: enc}
	defer feed.stop()
	feed.follow(ctx)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if err := enc.send(errorResponse("", fmt.Errorf("%w: %w", domain.ErrInvalidArguments, err))); err != nil {
				return err
			}
			continue
		}

		before := b.Session()
		for _, resp := range b.Handle(ctx, req) {
			if err := enc.send(resp); err != nil {
				return err
			}
		}
		if b.Session() != before {
			feed.follow(ctx)
		}
	}
	return scanner.Err()
}

// encoder serializes writes from the request loop and the board feed.
type encoder struct {
	enc *json.Encoder
	mu  sync.Mutex
}

func (e *encoder) send(resp Response) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(resp); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// boardFeed watches the session project's document.
type boardFeed struct {
	bridge *Bridge
	enc    *encoder
	w      *watcher.Watcher
	cancel context.CancelFunc
}

// follow (re)starts watching the bridge's current project.
func (f *boardFeed) follow(ctx context.Context) {
	f.stop()

	c, err := f.bridge.registry.Get(f.bridge.Session().ProjectID)
	if err != nil || !c.AppConfig.UI.Watch {
		return
	}
	w, err := c.NewWatcher()
	if err != nil {
		c.Diag.Warn("board watcher unavailable", "error", err)
		return
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		c.Diag.Warn("board watcher unavailable", "error", err)
		return
	}

	wctx, cancel := context.WithCancel(ctx)
	f.w, f.cancel = w, cancel
	go func() {
		for {
			select {
			case <-wctx.Done():
				return
			case <-changes:
				resp, err := boardState(wctx, c)
				if err != nil {
					continue
				}
				if err := f.enc.send(resp); err != nil {
					return
				}
			}
		}
	}()
}

func (f *boardFeed) stop() {
	if f.cancel == nil {
		return
	}
	f.cancel()
	_ = f.w.Stop()
	f.cancel, f.w = nil, nil
}
