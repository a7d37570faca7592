package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillon/agentdeck/core"
)

func echoAgent() core.Agent {
	return core.AgentFunc(func(_ context.Context, input core.Payload, _ *core.StepResults) (core.Payload, error) {
		return input, nil
	})
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	reg := New()

	err := reg.Register(core.Descriptor{Name: "echo", Description: "echoes input"}, echoAgent())
	require.NoError(t, err)

	agent, err := reg.Resolve("echo")
	require.NoError(t, err)
	assert.NotNil(t, agent)
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(core.Descriptor{Name: "echo"}, echoAgent()))

	err := reg.Register(core.Descriptor{Name: "echo"}, echoAgent())

	var dup *core.DuplicateAgentError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "echo", dup.Name)
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	reg := New()

	_, err := reg.Resolve("missing_agent")

	var unknown *core.UnknownAgentError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing_agent", unknown.Name)
}

func TestRegistry_ListPreservesRegistrationOrder(t *testing.T) {
	reg := New()
	names := []string{"data_agent", "analysis_agent", "reporter", "text_processor"}
	for _, name := range names {
		require.NoError(t, reg.Register(core.Descriptor{Name: name}, echoAgent()))
	}

	// Order must be stable across calls.
	for i := 0; i < 3; i++ {
		listed := reg.List()
		require.Len(t, listed, len(names))
		for j, desc := range listed {
			assert.Equal(t, names[j], desc.Name)
		}
	}
}

func TestRegistry_ListReturnsCopy(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(core.Descriptor{Name: "echo"}, echoAgent()))

	listed := reg.List()
	listed[0].Name = "tampered"

	assert.Equal(t, "echo", reg.List()[0].Name)
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	reg := New()
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("agent-%d", i)
		require.NoError(t, reg.Register(core.Descriptor{Name: name}, echoAgent()))
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := reg.Resolve(fmt.Sprintf("agent-%d", i%8))
			assert.NoError(t, err)
			assert.Len(t, reg.List(), 8)
		}(i)
	}
	wg.Wait()
}
