package media

import "strings"

type UploadClass string

const (
	ClassMedia   UploadClass = "media"
	ClassProfile UploadClass = "profile"
)

var imageMimeTypes = []string{
	"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp",
}

var videoMimeTypes = []string{
	"video/mp4", "video/webm", "video/ogg", "video/quicktime", "video/x-matroska",
	"video/x-msvideo", "video/x-flv", "video/3gpp", "video/3gpp2", "video/mpeg",
	"video/avi", "video/mov", "video/x-ms-wmv",
}

// UploadLimits caps the size of each upload class, in bytes.
type UploadLimits struct {
	MediaMaxBytes   int64
	ProfileMaxBytes int64
}

func DefaultUploadLimits() UploadLimits {
	return UploadLimits{MediaMaxBytes: 200 << 20, ProfileMaxBytes: 15 << 20}
}

type uploadPolicy struct {
	allowed  map[string]struct{}
	maxBytes int64
}

func (l UploadLimits) policies() map[UploadClass]uploadPolicy {
	media := make(map[string]struct{}, len(imageMimeTypes)+len(videoMimeTypes))
	profile := make(map[string]struct{}, len(imageMimeTypes))
	for _, t := range imageMimeTypes {
		media[t] = struct{}{}
		profile[t] = struct{}{}
	}
	for _, t := range videoMimeTypes {
		media[t] = struct{}{}
	}
	return map[UploadClass]uploadPolicy{
		ClassMedia:   {allowed: media, maxBytes: l.MediaMaxBytes},
		ClassProfile: {allowed: profile, maxBytes: l.ProfileMaxBytes},
	}
}

// ParseUploadClass maps an empty class to ClassMedia.
func ParseUploadClass(s string) (UploadClass, bool) {
	switch UploadClass(strings.ToLower(strings.TrimSpace(s))) {
	case "", ClassMedia:
		return ClassMedia, true
	case ClassProfile:
		return ClassProfile, true
	default:
		return UploadClass(s), false
	}
}

// IsMimeTypeAllowed reports whether class accepts the given MIME type.
func IsMimeTypeAllowed(class UploadClass, mimeType string) bool {
	p, ok := DefaultUploadLimits().policies()[class]
	if !ok {
		return false
	}
	_, ok = p.allowed[baseMimeType(mimeType)]
	return ok
}

// baseMimeType drops parameters such as "; charset=utf-8".
func baseMimeType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
