// SPDX-License-Identifier: EPL-2.0

package output

import (
	"sync"
	"time"
)

// DefaultQueueDepth is how many frames may wait for the sound device.
const DefaultQueueDepth = 8

// queue hands frames from the engine to a pulling player. Read never
// blocks: an empty queue plays silence.
type queue struct {
	frames chan []byte

	mu      sync.Mutex
	current []byte

	underruns int
}

func newQueue(depth int) *queue {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &queue{frames: make(chan []byte, depth)}
}

// push enqueues frame, waiting at most timeout for room. The queue owns
// frame afterwards. It returns 0 when the queue stayed full.
func (q *queue) push(frame []byte, timeout time.Duration) int {
	select {
	case q.frames <- frame:
		return len(frame)
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case q.frames <- frame:
		return len(frame)
	case <-timer.C:
		return 0
	}
}

// Read implements io.Reader for the player.
func (q *queue) Read(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for n < len(p) {
		if len(q.current) == 0 {
			select {
			case next := <-q.frames:
				q.current = next
			default:
				if n == 0 {
					q.underruns++
				}
				clear(p[n:])
				return len(p), nil
			}
		}
		c := copy(p[n:], q.current)
		n += c
		q.current = q.current[c:]
	}
	return n, nil
}

// flush drops everything not yet played.
func (q *queue) flush() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.current = nil
	for {
		select {
		case <-q.frames:
		default:
			return
		}
	}
}

// Underruns counts reads that found nothing to play.
func (q *queue) Underruns() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.underruns
}
