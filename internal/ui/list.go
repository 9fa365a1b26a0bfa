package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/vkdrive/vkdrive/internal/services"
)

var _ list.Item = photoItem{}

// photoItem wraps [services.Photo] to implement [list.Item].
type photoItem struct {
	photo    services.Photo
	selected bool
}

func (i photoItem) FilterValue() string { return fmt.Sprintf("%d", i.photo.ID) }

func (i photoItem) Title() string {
	marker := "[ ]"
	if i.selected {
		marker = "[x]"
	}
	return fmt.Sprintf("%s photo_%d", marker, i.photo.ID)
}

func (i photoItem) Description() string {
	url := services.LargestSize(i.photo)
	if url == "" {
		return "no usable size"
	}
	return fmt.Sprintf("%d sizes • %s", len(i.photo.Sizes), url)
}
