package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-wizard/internal/model"
)

func TestFieldAutoCorrectsTrailingContent(t *testing.T) {
	f := NewField(FieldConfig{ValidateDelay: time.Millisecond, TrimDelay: 5 * time.Millisecond})
	raw := "https://fr.aliexpress.com/item/1005009828380377.html?spm=a2g0o.productlist"

	msgs := drain(f.SetValue(raw))
	require.Len(t, msgs, 2)

	f.Update(msgs[0])
	assert.Equal(t, model.ValidationValidating, f.State().Status, "trailing junk must not flash an error")
	assert.Equal(t, raw, f.Value())

	for _, next := range drain(f.Update(msgs[1])) {
		f.Update(next)
	}
	assert.Equal(t, "https://fr.aliexpress.com/item/1005009828380377.html", f.Value())
	assert.Equal(t, model.ValidationValid, f.State().Status)
	assert.True(t, f.Ready())
}

func TestFieldEditCancelsPendingCorrection(t *testing.T) {
	f := NewField(FieldConfig{ValidateDelay: time.Millisecond, TrimDelay: time.Millisecond})
	first := f.SetValue("https://fr.aliexpress.com/item/1.html?x=1")
	second := f.SetValue("https://fr.aliexpress.com/item/1.html")

	msgs := append(drain(first), drain(second)...)
	for _, msg := range msgs {
		f.Update(msg)
	}
	assert.Equal(t, "https://fr.aliexpress.com/item/1.html", f.Value())
	assert.Equal(t, model.ValidationValid, f.State().Status)
}

func TestFieldPasteCorrectsImmediately(t *testing.T) {
	f := NewField(FieldConfig{ValidateDelay: time.Millisecond, TrimDelay: time.Hour})

	cmd := f.Paste("amazon.fr/gp/product/B08N5WRWNW?th=1")
	assert.Equal(t, "https://www.amazon.fr/dp/B08N5WRWNW", f.Value())
	assert.Equal(t, model.ValidationValidating, f.State().Status)

	for _, msg := range drain(cmd) {
		f.Update(msg)
	}
	assert.Equal(t, model.ValidationValid, f.State().Status)
	assert.Equal(t, model.KindAmazon, f.State().Kind)
}

func TestFieldBlurStripsStoreQuery(t *testing.T) {
	f := NewField(FieldConfig{ValidateDelay: time.Millisecond, TrimDelay: time.Hour})
	for _, msg := range drain(f.SetValue("mystore.com/products/mug?variant=1")) {
		f.Update(msg)
	}
	assert.Equal(t, model.ValidationValid, f.State().Status)

	cmd := f.Blur()
	require.NotNil(t, cmd)
	assert.Equal(t, "https://mystore.com/products/mug", f.Value())
	for _, msg := range drain(cmd) {
		f.Update(msg)
	}
	assert.Equal(t, model.ValidationValid, f.State().Status)

	assert.Nil(t, f.Blur(), "already canonical")
}

func TestFieldTeardownCancelsTimers(t *testing.T) {
	f := NewField(FieldConfig{ValidateDelay: time.Hour, TrimDelay: time.Hour})
	cmd := f.SetValue("https://fr.aliexpress.com/item/1.html?x=1")
	f.Teardown()
	assert.Empty(t, drain(cmd))
	assert.Equal(t, model.ValidationValidating, f.State().Status)
}
