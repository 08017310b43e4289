package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/widget-chat/backend/internal/model/chat"
	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
	"github.com/zhouzirui/widget-chat/backend/internal/service/extract"
)

func TestMessagesCoverEveryWidgetType(t *testing.T) {
	msgs, err := Messages()
	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	assert.Equal(t, chat.RoleUser, msgs[0].Role)

	ex := extract.New(nil)
	seen := make(map[widget.Type]bool)
	for _, m := range msgs {
		if m.Role != chat.RoleBot {
			continue
		}
		assert.NotEmpty(t, m.EventID)
		for _, seg := range ex.Extract(m.Text) {
			if seg.Kind != extract.KindWidget {
				continue
			}
			require.NoError(t, seg.Err, "event %s: %s", m.EventID, seg.Raw)
			tree, err := widget.Flatten(seg.Widget, 0)
			require.NoError(t, err)
			for _, n := range tree.Nodes {
				seen[n.Widget.Kind()] = true
			}
		}
	}

	for _, typ := range widget.Types() {
		assert.True(t, seen[typ], "demo never shows %s", typ)
	}
}

func TestMessagesMixProseAndWidgets(t *testing.T) {
	msgs, err := Messages()
	require.NoError(t, err)

	ex := extract.New(nil)
	mixed := 0
	for _, m := range msgs {
		if extract.Mixed(ex.Extract(m.Text)) {
			mixed++
		}
	}
	assert.Greater(t, mixed, 0)
}

func TestMessagesReturnsFreshSlice(t *testing.T) {
	a, err := Messages()
	require.NoError(t, err)
	a[0].Text = "changed"

	b, err := Messages()
	require.NoError(t, err)
	assert.NotEqual(t, "changed", b[0].Text)
}

func TestParseRejectsUnknownRole(t *testing.T) {
	_, err := parse([]byte("- role: system\n  text: hi\n"))
	assert.Error(t, err)

	_, err = parse([]byte("not: [a list"))
	assert.Error(t, err)
}
