package yatgbot

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_FallbackLoggerIsShared(t *testing.T) {
	buf := &bytes.Buffer{}

	dispatcher := NewDispatcher(nil)
	require.NotNil(t, dispatcher.fallbackLog)

	dispatcher.fallbackLog = yalogger.NewBaseLogger(&yalogger.Config{
		BaseLoggerType:   yalogger.Logrus,
		Level:            yalogger.DebugLevel,
		DisableTimestamp: true,
		Output:           buf,
	}).NewLogger()

	for range 3 {
		update, err := DecodeUpdate([]byte(`{"update_id":5,"poll":{"id":"p","question":"tea?"}}`))
		require.Nil(t, err)

		handled, err := dispatcher.Dispatch(context.Background(), update)

		require.Nil(t, err)
		assert.False(t, handled)
	}

	assert.Equal(t, 3, strings.Count(buf.String(), "No handler matched update"))
}

func TestDispatch_DependencyLoggerWins(t *testing.T) {
	buf := &bytes.Buffer{}
	log := yalogger.NewBaseLogger(&yalogger.Config{
		BaseLoggerType:   yalogger.Logrus,
		Level:            yalogger.DebugLevel,
		DisableTimestamp: true,
		Output:           buf,
	}).NewLogger()

	root := NewStateDispatcher("root", &Dependencies{Log: log})
	child := NewDispatcher(nil)

	require.Nil(t, root.RegisterState("checkout", child))

	update, err := DecodeUpdate([]byte(`{"update_id":6,"poll":{"id":"p","question":"tea?"}}`))
	require.Nil(t, err)

	_, err = root.Dispatch(context.Background(), update)
	require.Nil(t, err)

	assert.Contains(t, buf.String(), "No handler matched update")
	assert.Same(t, log, child.deps.Log)
}
