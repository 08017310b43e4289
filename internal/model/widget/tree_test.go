package widget

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenOrderAndPaths(t *testing.T) {
	leafA := &Text{WidgetType: TypeText, Content: "a"}
	leafB := &Rating{WidgetType: TypeRating, Value: 3}
	inner := &Popup{WidgetType: TypePopup, Content: leafB}
	root := &Container{WidgetType: TypeContainer, Widgets: []Widget{leafA, inner}}

	tree, err := Flatten(root, 0)
	require.NoError(t, err)
	require.Equal(t, 4, tree.Len())

	assert.Same(t, root, tree.Root().Widget)
	assert.Equal(t, []int{1, 2}, tree.Nodes[0].Children)
	assert.Same(t, leafA, tree.Nodes[1].Widget)
	assert.Same(t, inner, tree.Nodes[2].Widget)
	assert.Equal(t, []int{3}, tree.Nodes[2].Children)
	assert.Same(t, leafB, tree.Nodes[3].Widget)

	assert.Equal(t, "0", tree.Nodes[0].Path)
	assert.Equal(t, "0.1", tree.Nodes[2].Path)
	assert.Equal(t, "0.1.0", tree.Nodes[3].Path)
	assert.Equal(t, 3, tree.Nodes[3].Depth)
	assert.Equal(t, 2, tree.Nodes[3].Parent)
}

func TestFlattenDetectsCycle(t *testing.T) {
	loop := &Container{WidgetType: TypeContainer}
	wrapper := &Popup{WidgetType: TypePopup, Content: loop}
	loop.Widgets = []Widget{&Text{WidgetType: TypeText}, wrapper}

	_, err := Flatten(loop, 0)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestFlattenAllowsSharedSubtree(t *testing.T) {
	shared := &Alert{WidgetType: TypeAlert, Variant: "info", Message: "twice"}
	root := &Container{WidgetType: TypeContainer, Widgets: []Widget{shared, shared}}

	tree, err := Flatten(root, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, tree.Len())
}

func TestFlattenDepthLimit(t *testing.T) {
	var w Widget = &Text{WidgetType: TypeText}
	for i := 0; i < 4; i++ {
		w = &Container{WidgetType: TypeContainer, Widgets: []Widget{w}}
	}

	_, err := Flatten(w, 5)
	require.NoError(t, err)

	_, err = Flatten(w, 4)
	assert.ErrorIs(t, err, ErrTooDeep)
}

func TestDepthLimitProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("decode and flatten agree on the depth ceiling", prop.ForAll(
		func(levels, limit int) bool {
			dec := NewDecoder(WithMaxDepth(limit))
			w, err := dec.Decode([]byte(nestedContainers(levels)))
			if levels > limit {
				return err != nil
			}
			if err != nil {
				return false
			}
			tree, err := Flatten(w, limit)
			return err == nil && tree.Len() == levels
		},
		gen.IntRange(1, 30),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
