package synckit

import (
	"sync"
	"testing"
)

func TestKeyedSerializesSameKey(t *testing.T) {
	k := NewKeyed()
	var counter int

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k.Do("u1", func() { counter++ })
		}()
	}
	wg.Wait()

	if counter != 64 {
		t.Fatalf("counter = %d, want 64", counter)
	}
	if k.Len() != 1 {
		t.Fatalf("Len = %d, want 1", k.Len())
	}
}

func TestKeyedIndependentKeys(t *testing.T) {
	k := NewKeyed()

	k.Lock("a")
	done := make(chan struct{})
	go func() {
		// must not block on a different key
		k.Do("b", func() {})
		close(done)
	}()
	<-done
	k.Unlock("a")

	if k.Len() != 2 {
		t.Fatalf("Len = %d, want 2", k.Len())
	}
}

func TestKeyedLockUnlock(t *testing.T) {
	k := NewKeyed()
	k.Lock("x")
	k.Unlock("x")
	k.Lock("x")
	k.Unlock("x")
}
