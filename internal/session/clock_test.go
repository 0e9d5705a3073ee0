package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_Start(t *testing.T) {
	tests := []struct {
		name  string
		clock *Clock
		want  int64
	}{
		{"fresh match", NewClock(), 0},
		{"resumed match", NewClockAt(42), 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.clock.Current())
			assert.Equal(t, tt.want+1, tt.clock.Next(), "first logged command follows the start")
			assert.Equal(t, tt.want+1, tt.clock.Current())
		})
	}
}

func TestClock_SeqsAreContiguous(t *testing.T) {
	c := NewClock()
	for want := int64(1); want <= 12; want++ {
		assert.Equal(t, want, c.Next())
	}
	assert.Equal(t, int64(12), c.Current(), "Current never advances the clock")
}

func TestClock_ConcurrentNextNeverRepeats(t *testing.T) {
	c := NewClockAt(6)
	const scorers, balls = 8, 120

	var wg sync.WaitGroup
	seqs := make(chan int64, scorers*balls)
	for i := 0; i < scorers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < balls; j++ {
				seqs <- c.Next()
			}
		}()
	}
	wg.Wait()
	close(seqs)

	seen := make(map[int64]bool, scorers*balls)
	for seq := range seqs {
		assert.False(t, seen[seq], "seq %d issued twice", seq)
		assert.Greater(t, seq, int64(6))
		seen[seq] = true
	}
	assert.Len(t, seen, scorers*balls)
	assert.Equal(t, int64(6+scorers*balls), c.Current())
}
