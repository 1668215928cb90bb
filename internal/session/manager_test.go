package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jonathan/team-interview/internal/presets"
	"github.com/jonathan/team-interview/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Lifecycle(t *testing.T) {
	m := NewManager(testDeps(&scriptedEngine{}, nil, nil), presets.MustDefault())

	a, err := m.Create(testConfig(t))
	require.NoError(t, err)
	b, err := m.CreateFor("principal", testConfig(t))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, types.LevelJunior, b.Settings().ExperienceLevel)

	got, ok := m.Get(a.ID())
	require.True(t, ok)
	assert.Same(t, a, got)

	m.Remove(a.ID())
	_, ok = m.Get(a.ID())
	assert.False(t, ok)
	assert.Equal(t, []string{b.ID()}, m.IDs())
}

func TestManager_CreateForWithoutPresets(t *testing.T) {
	m := NewManager(testDeps(&scriptedEngine{}, nil, nil), nil)

	_, err := m.CreateFor("intern", testConfig(t))
	assert.Error(t, err)
}

func TestManager_ConcurrentSessions(t *testing.T) {
	const sessions = 8
	const turns = 4

	m := NewManager(testDeps(&scriptedEngine{}, nil, nil), presets.MustDefault())
	cfg := testConfig(t)

	var wg sync.WaitGroup
	errs := make(chan error, sessions)
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := m.Create(cfg)
			if err != nil {
				errs <- err
				return
			}
			if _, err := s.Start(context.Background()); err != nil {
				errs <- err
				return
			}
			for j := 0; j < turns; j++ {
				if _, err := s.Respond(context.Background(), fmt.Sprintf("session %d answer %d", i, j)); err != nil {
					errs <- err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, sessions, m.Len())
	for _, id := range m.IDs() {
		s, ok := m.Get(id)
		require.True(t, ok)
		snap := s.Snapshot()
		assert.Len(t, snap.History, 2+turns*2)
		assert.Len(t, snap.Backlog, 8)
	}
}

func TestSession_ConcurrentRespondIsSerialized(t *testing.T) {
	s := startedSession(t, &scriptedEngine{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Respond(context.Background(), "answer")
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	history := s.Snapshot().History
	require.Len(t, history, 2+5*2)
	for i := 2; i < len(history); i += 2 {
		assert.Equal(t, types.RoleCandidate, history[i].Role)
		assert.Equal(t, types.RoleInterviewer, history[i+1].Role)
	}
}
