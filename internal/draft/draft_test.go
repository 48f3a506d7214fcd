package draft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/fieldkit/internal/apperr"
	"github.com/starford/fieldkit/internal/models"
)

func TestSetReturnsNewSnapshotAndNotifies(t *testing.T) {
	s := NewStore(Draft{})
	var seen []Draft
	s.Subscribe(func(d Draft) { seen = append(seen, d) })

	d, err := s.Set(FieldName, "温度传感器")
	require.NoError(t, err)
	assert.Equal(t, "温度传感器", d.Name)
	require.Len(t, seen, 1)
	assert.Equal(t, d, seen[0])
	assert.Equal(t, d, s.Snapshot())
}

func TestListenersRunInSubscriptionOrder(t *testing.T) {
	s := NewStore(Draft{})
	var order []string
	s.Subscribe(func(Draft) { order = append(order, "resolve") })
	s.Subscribe(func(Draft) { order = append(order, "preview") })
	s.Subscribe(func(Draft) { order = append(order, "shell") })

	_, err := s.Set(FieldType, "数字")
	require.NoError(t, err)
	assert.Equal(t, []string{"resolve", "preview", "shell"}, order)
}

func TestUnsubscribe(t *testing.T) {
	s := NewStore(Draft{})
	calls := 0
	stop := s.Subscribe(func(Draft) { calls++ })

	_, _ = s.Set(FieldName, "a")
	stop()
	_, _ = s.Set(FieldName, "b")
	assert.Equal(t, 1, calls)
}

func TestResetNotifiesWithWholeDraft(t *testing.T) {
	s := NewStore(Draft{Name: "old"})
	var got Draft
	s.Subscribe(func(d Draft) { got = d })

	s.Reset(Draft{Name: "new", Type: "开关", Tags: []string{"x"}})
	assert.Equal(t, Draft{Name: "new", Type: "开关", Tags: []string{"x"}}, got)
}

func TestSetRejectsBadInput(t *testing.T) {
	s := NewStore(Draft{Name: "keep"})
	calls := 0
	s.Subscribe(func(Draft) { calls++ })

	_, err := s.Set("colour", "red")
	assert.ErrorIs(t, err, apperr.ErrUnknownField)

	_, err = s.Set(FieldName, 42)
	assert.ErrorIs(t, err, apperr.ErrInvalidValue)

	_, err = s.Set(FieldTags, []any{"a", 1})
	assert.ErrorIs(t, err, apperr.ErrInvalidValue)

	assert.Equal(t, 0, calls)
	assert.Equal(t, "keep", s.Snapshot().Name)
}

func TestTagsAcceptSeveralShapes(t *testing.T) {
	s := NewStore(Draft{})

	d, err := s.Set(FieldTags, []string{"传感器"})
	require.NoError(t, err)
	assert.Equal(t, []string{"传感器"}, d.Tags)

	d, err = s.Set(FieldTags, []any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, d.Tags)

	d, err = s.Set(FieldTags, "x, y")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", " y"}, d.Tags)

	d, err = s.Set(FieldTags, nil)
	require.NoError(t, err)
	assert.Nil(t, d.Tags)
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := NewStore(Draft{Tags: []string{"a"}})
	snap := s.Snapshot()
	snap.Tags[0] = "mutated"

	assert.Equal(t, []string{"a"}, s.Snapshot().Tags)
}

func TestIsBlank(t *testing.T) {
	d := Draft{Name: "  ", Type: "数字", Tags: []string{" ", ""}}
	assert.True(t, d.IsBlank(FieldName))
	assert.False(t, d.IsBlank(FieldType))
	assert.True(t, d.IsBlank(FieldTags))
	assert.True(t, d.IsBlank(FieldOptions))
}

func TestParseFieldKey(t *testing.T) {
	k, err := ParseFieldKey("defaultValue")
	require.NoError(t, err)
	assert.Equal(t, FieldDefaultValue, k)

	_, err = ParseFieldKey("id")
	assert.ErrorIs(t, err, apperr.ErrUnknownField)
}

func TestFromComponentAndFields(t *testing.T) {
	c := models.Component{
		ID:        "1",
		Name:      "地区",
		Type:      "下拉选择框",
		CreatedAt: time.Now(),
		Tags:      []string{"选择"},
		Options:   "北,南",
	}
	d := FromComponent(c)
	assert.Equal(t, "地区", d.Name)
	assert.Equal(t, "北,南", d.Options)

	f := Draft{Name: " 地区 ", Type: "下拉选择框", Tags: []string{"选择", "选择", ""}}.Fields()
	assert.Equal(t, "地区", f.Name)
	assert.Equal(t, []string{"选择"}, f.Tags)
}
