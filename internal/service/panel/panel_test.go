package panel

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/widget-chat/backend/internal/model/chat"
)

func msgs(roles ...chat.Role) []chat.Message {
	out := make([]chat.Message, len(roles))
	for i, r := range roles {
		out[i] = chat.Message{Role: r}
	}
	return out
}

func TestObserveScrollsOnGrowth(t *testing.T) {
	p := New(Config{})
	assert.True(t, p.Observe(msgs(chat.RoleUser)))
	assert.False(t, p.Observe(msgs(chat.RoleUser)), "nothing new")
	assert.True(t, p.Observe(msgs(chat.RoleUser, chat.RoleBot)))
}

func TestInterruptUntilUserMessage(t *testing.T) {
	p := New(Config{})
	p.Observe(msgs(chat.RoleUser))

	p.Interrupt()
	assert.False(t, p.Observe(msgs(chat.RoleUser, chat.RoleBot)), "bot replies do not clear the interruption")
	assert.True(t, p.Interrupted())

	assert.True(t, p.Observe(msgs(chat.RoleUser, chat.RoleBot, chat.RoleUser)))
	assert.False(t, p.Interrupted())
}

func TestObserveAfterShrink(t *testing.T) {
	p := New(Config{})
	p.Observe(msgs(chat.RoleUser, chat.RoleBot, chat.RoleUser))
	assert.False(t, p.Observe(msgs(chat.RoleBot)))
	assert.True(t, p.Observe(msgs(chat.RoleBot, chat.RoleBot)))
}

func TestScheduleScroll(t *testing.T) {
	p := New(Config{ScrollDelay: time.Millisecond})
	fired := make(chan struct{}, 1)
	require.True(t, p.ScheduleScroll(func() { fired <- struct{}{} }))

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("scroll did not fire")
	}

	p.Interrupt()
	assert.False(t, p.ScheduleScroll(func() { t.Error("interrupted panel must not scroll") }))
}

func TestSubmitSetsInputThenSends(t *testing.T) {
	p := New(Config{SubmitDelay: 5 * time.Millisecond})

	var input atomic.Value
	sent := make(chan string, 1)
	p.Submit("Pay Bill", func(s string) { input.Store(s) }, func(s string) { sent <- s })

	assert.Equal(t, "Pay Bill", input.Load(), "input is set synchronously")
	select {
	case got := <-sent:
		assert.Equal(t, "Pay Bill", got)
	case <-time.After(time.Second):
		t.Fatal("submit did not send")
	}
}

func TestDefaults(t *testing.T) {
	p := New(Config{ScrollDelay: -1})
	assert.Equal(t, DefaultScrollDelay, p.scrollDelay)
	assert.Equal(t, DefaultSubmitDelay, p.submitDelay)
}
