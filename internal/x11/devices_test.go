package x11

import (
	"testing"

	"github.com/jezek/xgb/xinput"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchName(t *testing.T) {
	assert.True(t, matchName("Kensington Expert Mouse", ""))
	assert.True(t, matchName("Kensington Expert Mouse", "kensington"))
	assert.True(t, matchName("Kensington Expert Mouse", "EXPERT"))
	assert.False(t, matchName("Kensington Expert Mouse", "logitech"))
	assert.False(t, matchName("", "logitech"))
}

func TestRegisterClasses(t *testing.T) {
	dev := Device{Id: 12}
	ok := dev.registerClasses([]xinput.InputClassInfo{
		{ClassId: xinput.InputClassKey, EventTypeBase: 64},
		{ClassId: xinput.InputClassButton, EventTypeBase: 66},
	})
	require.True(t, ok)
	assert.Equal(t, byte(66), dev.PressType)
	assert.Equal(t, byte(67), dev.ReleaseType)
	assert.Equal(t, xinput.EventClass(12<<8|66), dev.Classes[0])
	assert.Equal(t, xinput.EventClass(12<<8|67), dev.Classes[1])
}

func TestRegisterClassesNoButtonClass(t *testing.T) {
	dev := Device{Id: 12}
	ok := dev.registerClasses([]xinput.InputClassInfo{
		{ClassId: xinput.InputClassKey, EventTypeBase: 64},
	})
	assert.False(t, ok)
}

func TestSourceId(t *testing.T) {
	assert.Equal(t, byte(2), SourceId(2))
	assert.Equal(t, byte(2), SourceId(2|0x80))
}

func TestGrabStatusName(t *testing.T) {
	assert.Equal(t, "success", grabStatusName(0))
	assert.Equal(t, "already grabbed", grabStatusName(1))
	assert.Equal(t, "frozen", grabStatusName(4))
	assert.Equal(t, "unknown grab status 9", grabStatusName(9))
}
