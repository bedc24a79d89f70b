// Package attachment keeps the ordered list of files attached to a helpdesk
// request and enforces the count, size and type limits applied when files are
// offered.
package attachment

import (
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/spec-kit/helpdesk-request/internal/domain"
)

const (
	MaxFiles     = 5
	MaxFileBytes = 10 * 1024 * 1024
)

// RejectReason explains why an offered file was not attached.
type RejectReason string

const (
	RejectType     RejectReason = "type"
	RejectSize     RejectReason = "size"
	RejectCapacity RejectReason = "capacity"
)

// Rejection records a single dropped candidate.
type Rejection struct {
	Name   string       `json:"name"`
	Reason RejectReason `json:"reason"`
}

// OfferResult summarizes what happened to a batch of candidates.
type OfferResult struct {
	Accepted         int         `json:"accepted"`
	RejectedType     int         `json:"rejected_type"`
	RejectedSize     int         `json:"rejected_size"`
	RejectedCapacity int         `json:"rejected_capacity"`
	Rejections       []Rejection `json:"rejections,omitempty"`
}

// Rejected returns the total number of dropped candidates.
func (r OfferResult) Rejected() int {
	return r.RejectedType + r.RejectedSize + r.RejectedCapacity
}

func (r *OfferResult) reject(name string, reason RejectReason) {
	switch reason {
	case RejectType:
		r.RejectedType++
	case RejectSize:
		r.RejectedSize++
	case RejectCapacity:
		r.RejectedCapacity++
	}
	r.Rejections = append(r.Rejections, Rejection{Name: name, Reason: reason})
}

// Check applies the type and size predicates to one candidate. An empty
// reason means the candidate passes.
func Check(c domain.FileCandidate) RejectReason {
	if !TypeAllowed(c.Name, c.MimeType) {
		return RejectType
	}
	if c.SizeBytes < 0 || c.SizeBytes > MaxFileBytes {
		return RejectSize
	}
	return ""
}

// Offer filters candidates and appends the survivors to list in offered
// order. When the combined list would exceed MaxFiles the oldest entries are
// kept and the excess new ones are dropped. The input list is not modified.
func Offer(list domain.AttachmentList, candidates []domain.FileCandidate) (domain.AttachmentList, OfferResult) {
	var result OfferResult
	out := list.Clone()
	for _, c := range candidates {
		if reason := Check(c); reason != "" {
			result.reject(c.Name, reason)
			continue
		}
		if len(out) >= MaxFiles {
			result.reject(c.Name, RejectCapacity)
			continue
		}
		out = append(out, NewFileRef(c))
		result.Accepted++
	}
	return out, result
}

// RemoveAt drops the entry at index. Out of range indexes return an
// unchanged copy.
func RemoveAt(list domain.AttachmentList, index int) domain.AttachmentList {
	if index < 0 || index >= len(list) {
		return list.Clone()
	}
	out := make(domain.AttachmentList, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...)
}

// NewFileRef converts an accepted candidate into an attachment entry.
func NewFileRef(c domain.FileCandidate) domain.FileRef {
	mimeType := normalizeMIME(c.MimeType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		if detected := DetectMIME(c.Name); detected != "" {
			mimeType = detected
		}
	}
	return domain.FileRef{
		ID:        uuid.NewString(),
		Name:      c.Name,
		SizeBytes: c.SizeBytes,
		MimeType:  mimeType,
		Checksum:  Checksum(c.Content),
		Content:   c.Content,
	}
}

// Checksum returns the hex BLAKE2b-256 digest of content, or "" for no content.
func Checksum(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Manager holds an attachment list for a single form session. It is not safe
// for concurrent use; the form controller serializes access.
type Manager struct {
	files domain.AttachmentList
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{files: domain.AttachmentList{}}
}

// Offer filters and appends candidates, returning the new list.
func (m *Manager) Offer(candidates []domain.FileCandidate) (domain.AttachmentList, OfferResult) {
	var result OfferResult
	m.files, result = Offer(m.files, candidates)
	return m.Files(), result
}

// RemoveAt removes the entry at index if present and returns the new list.
func (m *Manager) RemoveAt(index int) domain.AttachmentList {
	m.files = RemoveAt(m.files, index)
	return m.Files()
}

// Files returns a copy of the current list.
func (m *Manager) Files() domain.AttachmentList {
	return m.files.Clone()
}

func (m *Manager) Len() int {
	return len(m.files)
}

// Remaining reports how many more files can be attached.
func (m *Manager) Remaining() int {
	return MaxFiles - len(m.files)
}

// Reset releases every held file.
func (m *Manager) Reset() {
	m.files = domain.AttachmentList{}
}
