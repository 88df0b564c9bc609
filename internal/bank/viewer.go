package bank

// ImageViewer is the enlarged-image overlay. The zero value is closed.
type ImageViewer struct {
	IsOpen  bool   `json:"open"`
	Src     string `json:"src,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Open shows src with caption. Opening while open replaces the image.
func (v *ImageViewer) Open(src, caption string) {
	v.IsOpen = true
	v.Src = src
	v.Caption = caption
}

// OpenCard shows the image block of c. It reports false when c has no image.
func (v *ImageViewer) OpenCard(c *Card) bool {
	if c == nil || c.Image == nil {
		return false
	}
	v.Open(c.Image.Src, c.Image.Alt)
	return true
}

// Close hides the overlay. It reports whether it was open.
func (v *ImageViewer) Close() bool {
	wasOpen := v.IsOpen
	*v = ImageViewer{}
	return wasOpen
}
