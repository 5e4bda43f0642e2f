package utils

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserContextRoundTrip(t *testing.T) {
	ctx := SetUserContext(context.Background(), 42, "a@b.vn", RoleAdmin)

	id, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "a@b.vn", GetUserEmailFromContext(ctx))
	assert.True(t, IsAdmin(ctx))

	_, ok = GetUserIDFromContext(context.Background())
	assert.False(t, ok)
	assert.False(t, IsAdmin(context.Background()))
}

func TestGenerateOrderNumber_Format(t *testing.T) {
	re := regexp.MustCompile(`^ORD\d{8}\d{4}$`)
	for i := 0; i < 20; i++ {
		num := GenerateOrderNumber()
		assert.True(t, re.MatchString(num), "unexpected order number %q", num)
	}
}

func TestToUint(t *testing.T) {
	n, err := ToUint("15")
	assert.NoError(t, err)
	assert.Equal(t, uint(15), n)

	_, err = ToUint("abc")
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "dien-thoai-phu-kien", Slugify("Dien Thoai & Phu Kien"))
	assert.Equal(t, "laptop", Slugify("  Laptop  "))
	assert.Equal(t, "ao-so-mi-nam", Slugify("Ao So Mi--Nam"))
	assert.Equal(t, "", Slugify("!!!"))
}
