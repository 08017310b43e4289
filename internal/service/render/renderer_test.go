package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
)

var everyWidget = map[widget.Type]string{
	widget.TypePricingCards: `{"type":"pricing-cards","title":"Plans","tabs":[{"id":"monthly","label":"Monthly","cards":[
		{"id":"basic","title":"Basic","price":{"currency":"$","amount":"9","period":"/mo","originalAmount":"12"},
		 "features":[{"text":"1 seat","enabled":true},{"text":"SSO","enabled":false}],"cta":{"text":"Buy"},"badge":"New"}]}]}`,
	widget.TypeForm: `{"type":"form","title":"Contact","fields":[
		{"type":"text","name":"fullName","label":"Name","required":true},
		{"type":"select","name":"topic","label":"Topic","placeholder":"Pick","options":[{"value":"a","label":"A"}]},
		{"type":"radio","name":"size","label":"Size","value":"m","options":[{"value":"s","label":"S"},{"value":"m","label":"M"}]},
		{"type":"textarea","name":"message","label":"Message"}],"showResetButton":false}`,
	widget.TypeQuickLinks: `{"type":"quick-links","links":[{"text":"Pay Bill","icon":"$"}],"card":{"title":"Shortcuts"}}`,
	widget.TypePopup:      `{"type":"popup","trigger":{"text":"Open","style":"button","tooltip":"More"},"title":"Info","content":{"type":"text","content":"inside"}}`,
	widget.TypeContainer:  `{"type":"container","layout":"grid","columns":2,"widgets":[{"type":"text","content":"a"}]}`,
	widget.TypeText:       `{"type":"text","content":"hello"}`,
	widget.TypeTable: `{"type":"table","columns":[{"key":"name","label":"Name"},{"key":"qty","label":"Qty","align":"right","width":"80px"}],
		"rows":[{"name":"Widget","qty":3},{"name":"Gadget"}],"striped":true}`,
	widget.TypeAlert:    `{"type":"alert","variant":"warning","title":"Heads up","message":"Plan expires","dismissible":true,"actions":[{"text":"Renew"}]}`,
	widget.TypeCardGrid: `{"type":"card-grid","columns":3,"cards":[{"title":"Laptop","image":"https://example.com/l.png","price":"$999","cta":{"text":"View"},"metadata":{"cpu":"M3"}}]}`,
	widget.TypeAccordion: `{"type":"accordion","items":[{"id":"q1","title":"How?","content":"Like this","expanded":true},{"id":"q2","title":"Why?","content":"Because"}]}`,
	widget.TypeTimeline:  `{"type":"timeline","items":[{"date":"2024-01-01","title":"Ordered","status":"completed"},{"date":"2024-01-03","title":"Shipped"}]}`,
	widget.TypeCarousel:  `{"type":"carousel","items":[{"image":"https://example.com/1.png","title":"One","link":"https://example.com"},{"image":"https://example.com/2.png"}],"showDots":true,"showArrows":true}`,
	widget.TypeRating:    `{"type":"rating","value":3.5,"max":5,"count":12,"showReviews":true,"allowInput":true}`,
	widget.TypeCart: `{"type":"cart","items":[
		{"id":"item1","name":"Laptop","price":1299,"quantity":1,"maxQuantity":5,"image":"https://example.com/l.png"},
		{"id":"item2","name":"Watch","price":349,"quantity":1,"editable":false,"removable":false}],
		"tax":{"percentage":8.5},"shipping":{"amount":15,"method":"Express"},"discount":{"code":"FRIDAY","percentage":10},
		"checkoutButton":{"text":"Pay now"},"continueShoppingButton":{"text":"Keep browsing"}}`,
}

func decode(t *testing.T, raw string) widget.Widget {
	t.Helper()
	w, err := widget.Decode([]byte(raw))
	require.NoError(t, err)
	return w
}

func TestRenderEveryType(t *testing.T) {
	r := New()
	require.Len(t, everyWidget, len(widget.Types()))
	for typ, raw := range everyWidget {
		t.Run(string(typ), func(t *testing.T) {
			out, err := r.Render(decode(t, raw), ThemeDark)
			require.NoError(t, err)
			assert.Contains(t, string(out), `class="widget widget-`+string(typ))
			assert.Contains(t, string(out), `id="w-0"`)
		})
	}
}

func TestRenderThemeReachesEveryNode(t *testing.T) {
	raw := `{"type":"container","widgets":[{"type":"text","content":"a"},
		{"type":"popup","trigger":{"text":"x","style":"inline"},"content":{"type":"rating","value":2}}]}`
	out, err := New().Render(decode(t, raw), ThemeDark)
	require.NoError(t, err)

	html := string(out)
	assert.Equal(t, 4, strings.Count(html, "theme-dark"))
	assert.NotContains(t, html, "theme-light")

	out, err = New().Render(decode(t, raw), Theme("neon"))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(out), "theme-light"))
}

func TestRenderOmitsInvalidChildren(t *testing.T) {
	raw := `{"type":"container","widgets":[{"type":"text","content":"kept"},{"type":"hologram","content":"secret"},
		{"type":"alert","variant":"info"}]}`
	out, err := New().Render(decode(t, raw), ThemeLight)
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "kept")
	assert.NotContains(t, html, "secret")
	assert.NotContains(t, html, "widget-alert")
	assert.Equal(t, 1, strings.Count(html, "container-item"))
}

func TestRenderInvalidRootIsEmpty(t *testing.T) {
	out, err := New().Render(&widget.Invalid{Declared: "hologram"}, ThemeLight)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRenderPopupStartsClosed(t *testing.T) {
	out, err := New().Render(decode(t, everyWidget[widget.TypePopup]), ThemeLight)
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `id="w-0-overlay"`)
	assert.Contains(t, html, `aria-expanded="false"`)
	assert.Contains(t, html, "popup-open")
	assert.Contains(t, html, "popup-close")
	assert.Contains(t, html, `id="w-0-0"`)

	overlay := html[strings.Index(html, `id="w-0-overlay"`):]
	assert.Contains(t, overlay[:strings.Index(overlay, ">")], "hidden")
	assert.Contains(t, overlay, "inside")
}

func TestRenderDeterministicAndPure(t *testing.T) {
	r := New()
	for typ, raw := range everyWidget {
		w := decode(t, raw)
		before, err := json.Marshal(w)
		require.NoError(t, err)

		first, err := r.Render(w, ThemeLight)
		require.NoError(t, err)
		second, err := r.Render(w, ThemeLight)
		require.NoError(t, err)
		assert.Equal(t, first, second, typ)

		after, err := json.Marshal(w)
		require.NoError(t, err)
		assert.JSONEq(t, string(before), string(after), typ)
	}
}

func TestRenderDepthLimit(t *testing.T) {
	raw := `{"type":"container","widgets":[{"type":"container","widgets":[{"type":"text","content":"deep"}]}]}`
	w := decode(t, raw)

	_, err := New(WithMaxDepth(2)).Render(w, ThemeLight)
	assert.ErrorIs(t, err, widget.ErrTooDeep)

	_, err = New(WithMaxDepth(3)).Render(w, ThemeLight)
	assert.NoError(t, err)
}

func TestRenderActionsCarryEvents(t *testing.T) {
	out, err := New().Render(decode(t, everyWidget[widget.TypePricingCards]), ThemeLight)
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, `data-widget-action="{&#34;type&#34;:&#34;pricing-card-click&#34;`)
	assert.Contains(t, html, `&#34;ctaText&#34;:&#34;Buy&#34;`)
}

func TestRenderCartControls(t *testing.T) {
	out, err := New().Render(decode(t, everyWidget[widget.TypeCart]), ThemeLight)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "$1648.00")
	assert.Contains(t, html, "update-quantity")
	// item2 is locked, so only item1 offers removal.
	assert.Equal(t, 1, strings.Count(html, `class="cart-remove"`))
	assert.Contains(t, html, "Pay now")
	assert.Contains(t, html, "Keep browsing")
}

func TestRenderRatingInput(t *testing.T) {
	out, err := New().Render(decode(t, everyWidget[widget.TypeRating]), ThemeLight)
	require.NoError(t, err)
	html := string(out)
	assert.Equal(t, 5, strings.Count(html, "rating-change"))
	assert.Equal(t, 3, strings.Count(html, "star full"))
	assert.Equal(t, 1, strings.Count(html, "star half"))
	assert.Contains(t, html, "(12 reviews)")
}

func TestRenderTextSanitizes(t *testing.T) {
	raw := `{"type":"text","content":"<b>hi</b><script>alert(1)</script>"}`
	out, err := New().Render(decode(t, raw), ThemeLight)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<b>hi</b>")
	assert.NotContains(t, string(out), "<script")
}

func TestRenderTextMarkdown(t *testing.T) {
	raw := `{"type":"text","markdown":true,"content":"/*PLANNING*/**bold** move"}`
	out, err := New(WithMarkdown(NewGoldmarkMarkdown())).Render(decode(t, raw), ThemeLight)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<strong>bold</strong>")
	assert.NotContains(t, string(out), "PLANNING")
}
