package timetable

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryNotReadyBeforePublish(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Ready())
	assert.Nil(t, r.Current())
}

func TestRegistryPublishSwapsAtomically(t *testing.T) {
	r := NewRegistry()
	s1 := NewSnapshot()
	s1.Routes["r1"] = &Route{ID: "r1"}
	r.Publish(s1)

	require.True(t, r.Ready())
	assert.Same(t, s1, r.Current())

	s2 := NewSnapshot()
	s2.Routes["r2"] = &Route{ID: "r2"}
	r.Publish(s2)

	assert.Same(t, s2, r.Current())
	// s1 is still intact for anyone holding a reference to it.
	_, ok := s1.Routes["r1"]
	assert.True(t, ok)
}

func TestRegistryPublishRealtimeIsNoOpBeforeAnyPublish(t *testing.T) {
	r := NewRegistry()
	r.PublishRealtime(&RealtimeTable{ByTrip: map[string][]RealtimeStopUpdate{"t1": nil}})
	assert.False(t, r.Ready())
}

func TestRegistryPublishRealtimeLeavesStaticDataIntact(t *testing.T) {
	r := NewRegistry()
	s1 := NewSnapshot()
	s1.Routes["r1"] = &Route{ID: "r1"}
	r.Publish(s1)

	rt := &RealtimeTable{ByTrip: map[string][]RealtimeStopUpdate{"t1": {{StopSequence: 2}}}}
	r.PublishRealtime(rt)

	cur := r.Current()
	require.NotSame(t, s1, cur)
	assert.Same(t, rt, cur.Realtime)
	_, ok := cur.Routes["r1"]
	assert.True(t, ok)
	// The previously published Snapshot's own Realtime field is untouched.
	assert.NotSame(t, rt, s1.Realtime)
}

func TestRegistryConcurrentReadsDuringSwap(t *testing.T) {
	r := NewRegistry()
	r.Publish(NewSnapshot())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := r.Current()
			require.NotNil(t, snap)
		}()
	}

	for i := 0; i < 10; i++ {
		r.Publish(NewSnapshot())
	}
	wg.Wait()
}
