package attachment

import (
	"mime"
	"path/filepath"
	"strings"
)

// acceptRule pairs a MIME pattern with the extensions it admits.
type acceptRule struct {
	mimePattern string
	extensions  []string
}

var acceptRules = []acceptRule{
	{mimePattern: "image/*", extensions: []string{".png", ".jpg", ".jpeg", ".gif"}},
	{mimePattern: "application/pdf", extensions: []string{".pdf"}},
	{mimePattern: "text/*", extensions: []string{".txt"}},
	{mimePattern: "application/msword", extensions: []string{".doc"}},
	{mimePattern: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", extensions: []string{".docx"}},
}

// AcceptedExtensions lists every extension admitted by the type filter.
func AcceptedExtensions() []string {
	var out []string
	for _, rule := range acceptRules {
		out = append(out, rule.extensions...)
	}
	return out
}

// TypeAllowed reports whether a file with the given name and MIME type passes
// the type filter. Either a MIME match or an extension match is sufficient.
func TypeAllowed(name, mimeType string) bool {
	mt := normalizeMIME(mimeType)
	ext := strings.ToLower(filepath.Ext(name))
	for _, rule := range acceptRules {
		if mt != "" && matchMIME(rule.mimePattern, mt) {
			return true
		}
		for _, allowed := range rule.extensions {
			if ext == allowed {
				return true
			}
		}
	}
	return false
}

// DetectMIME guesses a MIME type from the file extension. Unknown extensions
// yield an empty string.
func DetectMIME(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	switch ext {
	case ".txt":
		return "text/plain"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return normalizeMIME(mime.TypeByExtension(ext))
}

func normalizeMIME(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(mimeType)
	}
	return mediaType
}

func matchMIME(pattern, mimeType string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return strings.HasPrefix(mimeType, prefix+"/")
	}
	return pattern == mimeType
}
