package domain

// FileCandidate is a file offered by the requester before type and size filtering.
type FileCandidate struct {
	Name      string
	SizeBytes int64
	MimeType  string
	Content   []byte
}

// FileRef is an accepted attachment. Content is the raw handle owned by the
// form session until removal or reset.
type FileRef struct {
	ID        string
	Name      string
	SizeBytes int64
	MimeType  string
	Checksum  string
	Content   []byte
}

// AttachmentList is the ordered set of accepted attachments.
type AttachmentList []FileRef

// Clone returns a shallow copy that shares file content but not the backing array.
func (l AttachmentList) Clone() AttachmentList {
	if l == nil {
		return AttachmentList{}
	}
	out := make(AttachmentList, len(l))
	copy(out, l)
	return out
}

// TotalBytes sums attachment sizes.
func (l AttachmentList) TotalBytes() int64 {
	var total int64
	for _, f := range l {
		total += f.SizeBytes
	}
	return total
}
