// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTo(t *testing.T) {
	zero := To("0")
	assert.Equal(t, "0", *zero)
	assert.NotSame(t, zero, To("0"))
}

func TestFallback(t *testing.T) {
	assert.Equal(t, "-", Fallback[string](nil, "-"))
	assert.Equal(t, "0", Fallback(To("0"), "-"))
}
