package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueSealed(t *testing.T) {
	// Verify all types implement Value (compile-time check via assignment)
	var _ Value = Int32(42)
	var _ Value = Int64(1 << 40)
	var _ Value = Float64(3.14)
	var _ Value = String("test")
	var _ Value = Bool(true)
	var _ Value = Rec(F("key", String("value")))
	var _ Value = Seq(Int32(1), String("a"))
}

func TestRecordGet(t *testing.T) {
	rec := Rec(
		F("name", String("cart")),
		F("count", Int32(5)),
	)

	v, ok := rec.Get("count")
	assert.True(t, ok)
	assert.Equal(t, Int32(5), v)

	_, ok = rec.Get("missing")
	assert.False(t, ok)
}

func TestRecordNamesKeepInsertionOrder(t *testing.T) {
	rec := Rec(
		F("zebra", Int32(1)),
		F("apple", Int32(2)),
		F("mango", Int32(3)),
	)

	assert.Equal(t, []string{"zebra", "apple", "mango"}, rec.Names())
}

func TestRecordSet(t *testing.T) {
	rec := Rec(F("hp", Int32(10)))

	rec = rec.Set("hp", Int32(20))
	v, _ := rec.Get("hp")
	assert.Equal(t, Int32(20), v)
	assert.Len(t, rec, 1)

	rec = rec.Set("mp", Int32(5))
	assert.Len(t, rec, 2)
	assert.Equal(t, []string{"hp", "mp"}, rec.Names())
}
