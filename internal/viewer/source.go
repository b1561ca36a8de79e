package viewer

import "image"

// ImageSource supplies the image being annotated. The viewer only reads
// from it.
type ImageSource interface {
	// CurrentImage returns the active image and a display name. A nil
	// image is allowed and renders a placeholder.
	CurrentImage() (image.Image, string)
	CurrentIndex() int
}

// NamedImage is one entry of an ImageList.
type NamedImage struct {
	Name  string
	Image image.Image
}

// ImageList is an in-memory ImageSource with a clamped index selector.
type ImageList struct {
	items []NamedImage
	index int
}

// NewImageList returns a list positioned at its first image.
func NewImageList(items ...NamedImage) *ImageList {
	return &ImageList{items: append([]NamedImage(nil), items...)}
}

// Add appends img and returns its index.
func (l *ImageList) Add(name string, img image.Image) int {
	l.items = append(l.items, NamedImage{Name: name, Image: img})
	return len(l.items) - 1
}

// Len returns the number of images.
func (l *ImageList) Len() int { return len(l.items) }

// CurrentImage implements ImageSource.
func (l *ImageList) CurrentImage() (image.Image, string) {
	if len(l.items) == 0 {
		return nil, ""
	}
	it := l.items[l.index]
	return it.Image, it.Name
}

// CurrentIndex implements ImageSource.
func (l *ImageList) CurrentIndex() int { return l.index }

// SetIndex selects image i, clamped to the list.
func (l *ImageList) SetIndex(i int) int {
	if len(l.items) == 0 {
		l.index = 0
		return 0
	}
	l.index = min(max(i, 0), len(l.items)-1)
	return l.index
}

// Step moves the selector by delta and reports whether it changed.
func (l *ImageList) Step(delta int) bool {
	before := l.index
	return l.SetIndex(l.index+delta) != before
}
