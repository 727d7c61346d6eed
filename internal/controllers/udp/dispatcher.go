package udp

import (
	"net"
	"sync"
)

type datagram struct {
	data []byte
	addr net.Addr
}

// dispatcher hands datagrams to handlers. Submit is called from the
// receive loop only; Close waits for in-flight handlers.
type dispatcher interface {
	Submit(dg datagram) bool
	Close()
}

// spawnDispatcher runs every datagram in its own goroutine.
type spawnDispatcher struct {
	handle func(datagram)
	wg     sync.WaitGroup
}

func newSpawnDispatcher(handle func(datagram)) *spawnDispatcher {
	return &spawnDispatcher{handle: handle}
}

func (d *spawnDispatcher) Submit(dg datagram) bool {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.handle(dg)
	}()
	return true
}

func (d *spawnDispatcher) Close() {
	d.wg.Wait()
}

// poolDispatcher feeds a fixed set of workers through a bounded queue.
// Submit never blocks: a full queue drops the datagram.
type poolDispatcher struct {
	in chan datagram
	wg sync.WaitGroup
}

func newPoolDispatcher(workers, queueSize int, handle func(datagram)) *poolDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	p := &poolDispatcher{in: make(chan datagram, queueSize)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for dg := range p.in {
				handle(dg)
			}
		}()
	}
	return p
}

func (p *poolDispatcher) Submit(dg datagram) bool {
	select {
	case p.in <- dg:
		return true
	default:
		return false
	}
}

func (p *poolDispatcher) Close() {
	close(p.in)
	p.wg.Wait()
}
