package item

import "strings"

type ItemOption func(*Item)

func WithText(text string) ItemOption {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return func(i *Item) {
		i.Text = text
	}
}

func WithStatus(status Status) ItemOption {
	if status == StatusArchived {
		return nil
	}
	return func(i *Item) {
		i.Status = status
	}
}
