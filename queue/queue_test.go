package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPutGetFIFOOrdering(t *testing.T) {
	q := New[int]()
	q.Put(Some(1))
	q.Put(Some(2))
	q.Put(Some(3))

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 1, q.Get().Value)
	assert.Equal(t, 2, q.Get().Value)
	assert.Equal(t, 3, q.Get().Value)
	assert.Equal(t, 0, q.Len())
}

func TestGetBlocksUntilPut(t *testing.T) {
	q := New[string]()
	got := make(chan Option[string], 1)

	go func() {
		got <- q.Get()
	}()

	select {
	case <-got:
		t.Fatal("Get returned before any Put")
	case <-time.After(50 * time.Millisecond):
	}

	q.Put(Some("hello"))

	select {
	case v := <-got:
		assert.True(t, v.Valid)
		assert.Equal(t, "hello", v.Value)
	case <-time.After(time.Second):
		t.Fatal("Get did not unblock after Put")
	}
}

func TestNoneSignalsShutdown(t *testing.T) {
	q := New[int]()
	q.Put(None[int]())
	v := q.Get()
	assert.False(t, v.Valid)
}

func TestConcurrentProducersConsumers(t *testing.T) {
	q := New[int]()
	const n = 200

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			q.Put(Some(i))
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for i := 0; i < n; i++ {
		v := q.Get()
		assert.True(t, v.Valid)
		seen[v.Value] = true
	}
	assert.Len(t, seen, n)
}
