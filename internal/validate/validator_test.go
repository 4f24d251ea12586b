package validate

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"storefront-wizard/internal/model"
	"storefront-wizard/internal/timer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// drain runs cmd to completion and returns every non-nil message it yields,
// expanding batches in order.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		status model.ValidationStatus
		kind   model.UrlKind
		msg    string
	}{
		{"aliexpress item", "https://fr.aliexpress.com/item/1005009828380377.html", model.ValidationValid, model.KindAliExpress, "AliExpress product link"},
		{"amazon dp", "amazon.fr/dp/B08N5WRWNW", model.ValidationValid, model.KindAmazon, "Amazon product link"},
		{"amazon gp", "https://www.amazon.co.uk/gp/product/B08N5WRWNW?th=1", model.ValidationValid, model.KindAmazon, "Amazon product link"},
		{"shopify product", "https://mystore.com/products/ceramic-mug?variant=1", model.ValidationValid, model.KindShopify, "Shopify product link"},
		{"aliexpress without extension", "https://www.aliexpress.com/item/1005009828380377", model.ValidationInvalid, model.KindUnknown, MsgAliExpressMissingExtension},
		{"aliexpress store page", "https://www.aliexpress.com/store/912345", model.ValidationInvalid, model.KindUnknown, MsgAliExpressFormat},
		{"amazon search", "https://www.amazon.com/s?k=mug", model.ValidationInvalid, model.KindUnknown, MsgAmazonMissingID},
		{"collection only", "https://mystore.com/collections/summer", model.ValidationInvalid, model.KindUnknown, MsgStoreMissingProduct},
		{"homepage", "example.com", model.ValidationInvalid, model.KindUnknown, MsgHomepage},
		{"free text", "hello world", model.ValidationInvalid, model.KindUnknown, MsgUnsupported},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.raw, false)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.kind, got.Kind)
			assert.Equal(t, tc.msg, got.Message)
		})
	}
}

func TestEvaluateSuppressesTrailingContent(t *testing.T) {
	raw := "https://fr.aliexpress.com/item/1005009828380377.html?spm=a2g0o.productlist"

	got := Evaluate(raw, false)
	assert.Equal(t, model.ValidationValidating, got.Status)
	assert.Equal(t, model.KindAliExpress, got.Kind)

	got = Evaluate(raw, true)
	assert.Equal(t, model.ValidationValid, got.Status)
	assert.Equal(t, model.KindAliExpress, got.Kind)
}

func TestValidatorBlankInputGoesIdle(t *testing.T) {
	v := NewValidator(time.Hour)
	cmd := v.OnInput("example.com")
	require.NotNil(t, cmd)
	assert.Equal(t, model.ValidationValidating, v.State().Status)

	assert.Nil(t, v.OnInput("   "))
	assert.Equal(t, model.ValidationIdle, v.State().Status)
	assert.Empty(t, drain(cmd), "blank input must cancel the pending timer")
}

func TestValidatorOnlyLatestInputCompletes(t *testing.T) {
	var terminal []model.ValidationState
	v := NewValidator(time.Millisecond, WithObserver(func(s model.ValidationState) {
		if s.Terminal() {
			terminal = append(terminal, s)
		}
	}))

	first := v.OnInput("example.com")
	second := v.OnInput("amazon.fr/gp/product/B08N5WRWNW")
	msgs := append(drain(first), drain(second)...)
	require.Len(t, msgs, 1)

	for _, msg := range msgs {
		v.Update(msg)
	}
	require.Len(t, terminal, 1)
	assert.Equal(t, model.ValidationValid, terminal[0].Status)
	assert.Equal(t, model.KindAmazon, terminal[0].Kind)
}

func TestValidatorDropsStaleTimer(t *testing.T) {
	v := NewValidator(time.Millisecond)
	cmd := v.OnInput("example.com")
	msgs := drain(cmd)
	require.Len(t, msgs, 1)

	v.OnInput("example.co")
	v.Update(msgs[0])
	assert.Equal(t, model.ValidationValidating, v.State().Status)

	v.Update(timer.FiredMsg{Slot: v.slot.ID(), Token: v.slot.Token() + 7})
	assert.Equal(t, model.ValidationValidating, v.State().Status)
	v.Stop()
}
