package cart

import (
	"encoding/json"
	"testing"

	"storefront/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMergesByName(t *testing.T) {
	c := New().Add("Fruit", "Apple", 2).Add("Fruit", "Apple", 3)

	want := []models.LineItem{{Name: "Apple", Quantity: 5}}
	if diff := cmp.Diff(want, c.Items("Fruit")); diff != "" {
		t.Errorf("Fruit items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, c.Len())
}

func TestAddIsCaseSensitiveAndKeepsOrder(t *testing.T) {
	c := New().
		Add("Fruit", "Apple", 1).
		Add("Dairy", "Milk", 2).
		Add("Fruit", "apple", 1).
		Add("Fruit", "Banana", 4)

	want := []Line{
		{Category: "Fruit", Name: "Apple", Quantity: 1},
		{Category: "Fruit", Name: "apple", Quantity: 1},
		{Category: "Fruit", Name: "Banana", Quantity: 4},
		{Category: "Dairy", Name: "Milk", Quantity: 2},
	}
	if diff := cmp.Diff(want, c.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Fruit", "Dairy"}, c.Categories())
}

func TestAddAcceptsAnyPositiveQuantity(t *testing.T) {
	c := New().Add("Fruit", "Apple", 1_000)
	assert.Equal(t, 1_000, c.Quantity("Fruit", "Apple"))
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	base := New().Add("Fruit", "Apple", 2)

	_ = base.Add("Fruit", "Apple", 3)
	_ = base.UpdateQuantity("Fruit", "Apple", 9)
	_ = base.Remove("Fruit", "Apple")
	_ = base.Clear()

	assert.Equal(t, 2, base.Quantity("Fruit", "Apple"))
	assert.Equal(t, 1, base.Len())
}

func TestUpdateQuantityOverwrites(t *testing.T) {
	c := New().Add("Fruit", "Apple", 5).UpdateQuantity("Fruit", "Apple", 2)
	assert.Equal(t, 2, c.Quantity("Fruit", "Apple"))
}

func TestUpdateQuantityToZeroRemovesItemAndCategory(t *testing.T) {
	c := New().Add("Fruit", "Apple", 5).UpdateQuantity("Fruit", "Apple", 0)

	assert.True(t, c.IsEmpty())
	assert.Nil(t, c.Items("Fruit"))
	assert.Empty(t, c.Categories())
}

func TestUpdateQuantityNegativeKeepsOtherItems(t *testing.T) {
	c := New().Add("Fruit", "Apple", 5).Add("Fruit", "Pear", 1).UpdateQuantity("Fruit", "Apple", -1)

	assert.Equal(t, []models.LineItem{{Name: "Pear", Quantity: 1}}, c.Items("Fruit"))
}

func TestUpdateQuantityMissingIsNoop(t *testing.T) {
	c := New().Add("Fruit", "Apple", 5)

	assert.Equal(t, c.Lines(), c.UpdateQuantity("Dairy", "Apple", 3).Lines())
	assert.Equal(t, c.Lines(), c.UpdateQuantity("Fruit", "Kiwi", 3).Lines())
}

func TestRemove(t *testing.T) {
	c := New().Add("Fruit", "Apple", 1).Add("Fruit", "Pear", 1).Add("Dairy", "Milk", 1)

	c = c.Remove("Fruit", "Apple")
	assert.Equal(t, []models.LineItem{{Name: "Pear", Quantity: 1}}, c.Items("Fruit"))

	c = c.Remove("Fruit", "Pear")
	assert.Equal(t, []string{"Dairy"}, c.Categories())

	c = c.Remove("Fruit", "Pear")
	assert.Equal(t, []string{"Dairy"}, c.Categories())
}

func TestClearIsIdempotent(t *testing.T) {
	c := New().Add("Fruit", "Apple", 1).Clear()
	assert.True(t, c.IsEmpty())

	c = c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Nil(t, c.Lines())
}

func TestMarshalJSONKeepsCategoryOrder(t *testing.T) {
	c := New().Add("Zucchini", "Green", 1).Add("Apples", "Red", 2)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"Zucchini":[{"name":"Green","quantity":1}],"Apples":[{"name":"Red","quantity":2}]}`, string(out))

	out, err = json.Marshal(New())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestSubtractLeavesUnsentItems(t *testing.T) {
	sent := New().Add("Fruit", "Apple", 2)
	current := sent.Add("Dairy", "Milk", 1).Add("Fruit", "Apple", 1)

	got := current.Subtract(sent)

	want := []Line{
		{Category: "Fruit", Name: "Apple", Quantity: 1},
		{Category: "Dairy", Name: "Milk", Quantity: 1},
	}
	if diff := cmp.Diff(want, got.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, current.Quantity("Fruit", "Apple"), "receiver unchanged")
}

func TestSubtractEverythingSentEmptiesCart(t *testing.T) {
	sent := New().Add("Fruit", "Apple", 2).Add("Dairy", "Milk", 1)

	assert.True(t, sent.Subtract(sent).IsEmpty())
	assert.True(t, New().Subtract(sent).IsEmpty())
	assert.True(t, sent.UpdateQuantity("Fruit", "Apple", 1).Remove("Dairy", "Milk").Subtract(sent).IsEmpty())
}
