// Package artifact derives the blob keys of every artifact class.
// All keys are deterministic, so a retried stage overwrites its previous result.
package artifact

import (
	"path"
	"strings"
)

const (
	audioPrefix    = "audio"
	textPrefix     = "processed/text"
	srtPrefix      = "processed/srt"
	errorPrefix    = "processed/error"
	summaryPrefix  = "processed/summary"
	subtitledVideo = "video_sub"
	videoPrefix    = "videos"

	subtitledSuffix = "_sub"
)

// AudioKey returns audio/{uid}/{stem}.mp3 for a video key. An empty uid
// collapses to audio/{stem}.mp3. The uid is used as is; callers check it with
// ValidUID first.
func AudioKey(videoKey, uid string) string {
	if uid == "" {
		return audioPrefix + "/" + Stem(videoKey) + ".mp3"
	}
	return audioPrefix + "/" + uid + "/" + Stem(videoKey) + ".mp3"
}

// ValidUID reports whether uid keeps the audio key inside audio/. It rejects
// absolute paths, empty segments and dot segments.
func ValidUID(uid string) bool {
	if uid == "" {
		return true
	}
	for _, seg := range strings.Split(uid, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

func TextKey(iid string) string {
	return textPrefix + "/" + iid + ".txt"
}

func SRTKey(iid string) string {
	return srtPrefix + "/" + iid + ".srt"
}

// ErrorKey is the terminal error marker for a transcription job.
func ErrorKey(iid string) string {
	return errorPrefix + "/" + iid + ".error"
}

func SummaryKey(iid string) string {
	return summaryPrefix + "/" + iid + ".md"
}

func SummaryDocKey(iid string) string {
	return summaryPrefix + "/" + iid + ".docx"
}

// SubtitledVideoKey inserts the _sub suffix before the extension:
// videos/a.mp4 becomes video_sub/a_sub.mp4.
func SubtitledVideoKey(videoKey string) string {
	base := BaseName(videoKey)
	ext := path.Ext(base)
	return subtitledVideo + "/" + strings.TrimSuffix(base, ext) + subtitledSuffix + ext
}

// UploadKey is where ingest places a local video file.
func UploadKey(filename string) string {
	return videoPrefix + "/" + BaseName(filename)
}

// BaseName returns the last slash-separated element of key.
func BaseName(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

// Stem returns the base name of key without its final extension.
func Stem(key string) string {
	base := BaseName(key)
	return strings.TrimSuffix(base, path.Ext(base))
}
