package upload

import "sync"

const progressBuffer = 16

// Progress is the observable transfer state of one job: a fraction in
// [0,1] that only moves forward. Observers subscribe to a shared stream;
// publishing never blocks the transfer, a slow subscriber just loses the
// oldest update. Safe for concurrent use.
type Progress struct {
	mu     sync.Mutex
	subs   []chan float64
	last   float64
	closed bool
}

func newProgress() *Progress {
	return &Progress{}
}

// Fraction returns the latest published value.
func (p *Progress) Fraction() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Subscribe registers an observer channel. The channel is closed when
// the job finishes. Subscribing after completion yields a closed channel.
func (p *Progress) Subscribe() <-chan float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan float64, progressBuffer)
	if p.closed {
		close(ch)
		return ch
	}
	p.subs = append(p.subs, ch)
	return ch
}

// publish pushes a new fraction to all subscribers. Values never go
// backwards: anything below the last published fraction is ignored.
func (p *Progress) publish(f float64) {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || f <= p.last {
		return
	}
	p.last = f

	for _, ch := range p.subs {
		// Ring-buffer: drop oldest if full.
		select {
		case ch <- f:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- f:
			default:
			}
		}
	}
}

// finish closes all subscriber channels. Idempotent.
func (p *Progress) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	for _, ch := range p.subs {
		close(ch)
	}
	p.subs = nil
}
