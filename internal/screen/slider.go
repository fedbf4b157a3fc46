package screen

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// seekSlider is the position slider. Once tapped it holds the keyboard
// focus, so it hands key presses to the screen's shortcuts instead of
// stepping its own value.
type seekSlider struct {
	widget.Slider
	onKey func(*fyne.KeyEvent)
}

func newSeekSlider(onKey func(*fyne.KeyEvent)) *seekSlider {
	sl := &seekSlider{onKey: onKey}
	sl.Min = 0
	sl.Max = 1
	sl.Step = SliderStep
	sl.Orientation = widget.Horizontal
	sl.ExtendBaseWidget(sl)
	return sl
}

// TypedKey implements fyne.Focusable.
func (sl *seekSlider) TypedKey(ev *fyne.KeyEvent) {
	if sl.onKey != nil {
		sl.onKey(ev)
	}
}
