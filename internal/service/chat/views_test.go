package chat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/zhouzirui/widget-chat/backend/internal/model/chat"
	chat "github.com/zhouzirui/widget-chat/backend/internal/service/chat"
	"github.com/zhouzirui/widget-chat/backend/internal/service/extract"
)

func TestBuildViews(t *testing.T) {
	msgs := []model.Message{
		{Role: model.RoleUser, Text: "what plans do you have? {curious}"},
		{Role: model.RoleBot, EventID: "ev-1", Text: `Here: {"type":"rating","value":4}`},
		{Role: model.RoleBot, EventID: "ev-2", Text: `{"type":"text","content":"only"}`},
	}
	authors := func(id string) string {
		if id == "ev-1" {
			return "pricing_agent"
		}
		return model.RootAgent
	}

	views := chat.BuildViews(msgs, extract.New(nil), authors)
	require.Len(t, views, 3)

	require.Len(t, views[0].Segments, 1, "user text is not scanned")
	assert.Equal(t, msgs[0].Text, views[0].Segments[0].Text)
	assert.False(t, views[0].Mixed)

	assert.Equal(t, "pricing_agent", views[1].Author)
	assert.True(t, strings.HasPrefix(views[1].IconClass, "custom-icon-color-"))
	assert.Len(t, views[1].IconClass, len("custom-icon-color-")+6)
	assert.True(t, views[1].Mixed)

	assert.Equal(t, model.RootAgent, views[2].Author)
	assert.Empty(t, views[2].IconClass)
	assert.False(t, views[2].Mixed)
}

func TestIconColorClassStable(t *testing.T) {
	assert.Equal(t, chat.IconColorClass("support_agent"), chat.IconColorClass("support_agent"))
	assert.NotEqual(t, chat.IconColorClass("support_agent"), chat.IconColorClass("pricing_agent"))
	assert.Empty(t, chat.IconColorClass(model.RootAgent))
}
