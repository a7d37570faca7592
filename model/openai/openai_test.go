package openai

import (
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
)

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel()

	assert.Equal(t, openai.ChatModelGPT4oMini, m.opts.Model)
	assert.Equal(t, 0.7, m.opts.Temperature)
	assert.Equal(t, int64(1024), m.opts.MaxCompletionTokens)
	assert.Empty(t, m.opts.APIKey)
}

func TestNewModel_AppliesOptions(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.Model = openai.ChatModelGPT4o
		o.APIKey = "sk-test"
	})

	assert.Equal(t, openai.ChatModelGPT4o, m.opts.Model)
	assert.Equal(t, "sk-test", m.opts.APIKey)
}

func TestModel_Info(t *testing.T) {
	m := NewModel()

	info := m.Info()
	assert.Equal(t, "openai", info.Provider)
	assert.Equal(t, openai.ChatModelGPT4oMini, info.Name)
}
