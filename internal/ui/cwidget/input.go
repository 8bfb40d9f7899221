// Package cwidget holds small custom Fyne widgets used by the viewer.
package cwidget

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Input is a labeled entry that validates its text into a typed value
// before invoking OnChanged. Invalid input shows an inline error and
// is never propagated.
type Input[T any] struct {
	widget.BaseWidget

	labelWidget *widget.Label
	entryWidget *widget.Entry
	errorWidget *widget.Label

	LabelText    string
	DefaultValue T

	OnChanged func(T)
	Validator func(string) (T, error)
}

// NewIntInput builds an integer input constrained to [min, max]. An
// empty entry falls back to the default value.
func NewIntInput(label, placeholder string, defaultValue, min, max int, onChanged func(int)) *Input[int] {
	input := &Input[int]{
		LabelText:    label,
		DefaultValue: defaultValue,
		OnChanged:    onChanged,
	}

	input.labelWidget = widget.NewLabel(fmt.Sprintf("%s: %d", label, defaultValue))
	input.labelWidget.TextStyle = fyne.TextStyle{Bold: true}

	input.entryWidget = widget.NewEntry()
	input.entryWidget.SetPlaceHolder(placeholder)

	input.errorWidget = widget.NewLabel("")
	input.errorWidget.Hidden = true
	input.errorWidget.TextStyle = fyne.TextStyle{Italic: true}
	input.errorWidget.Importance = widget.DangerImportance

	input.Validator = func(s string) (int, error) {
		if s == "" {
			return defaultValue, nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return defaultValue, fmt.Errorf("not an integer")
		}
		if v < min || v > max {
			return defaultValue, fmt.Errorf("must be between %d and %d", min, max)
		}
		return v, nil
	}

	input.entryWidget.OnChanged = func(s string) {
		v, err := input.Validator(s)
		input.SetError(err)
		if err == nil {
			input.OnChanged(v)
			input.labelWidget.SetText(fmt.Sprintf("%s: %d", label, v))
		}
	}

	input.ExtendBaseWidget(input)
	return input
}

func (item *Input[T]) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewVBox(
		item.labelWidget,
		item.entryWidget,
		item.errorWidget,
	)
	return widget.NewSimpleRenderer(c)
}

func (item *Input[T]) SetError(err error) {
	item.errorWidget.Hidden = err == nil
	if err != nil {
		item.errorWidget.SetText(err.Error())
	}
}

func (item *Input[T]) SetText(text string) {
	item.entryWidget.SetText(text)
}
