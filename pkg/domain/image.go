package domain

// ImageRef identifies a single image produced by one upstream source.
// Two sources may reuse the same bare image ID, so identity is always
// the (SourceID, ImageID) pair.
type ImageRef struct {
	SourceID string
	ImageID  string
	URL      string
}

func (r ImageRef) Key() string {
	return r.SourceID + ":" + r.ImageID
}
