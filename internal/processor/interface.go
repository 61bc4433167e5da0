package processor

import "context"

// Processor runs the pipeline stages. Every stage is a stateless transform
// from input blob keys to output blob keys; nothing is shared between calls.
type Processor interface {
	ExtractAudio(ctx context.Context, req AudioRequest) (Artifact, error)
	Transcribe(ctx context.Context, req TranscribeRequest) (Transcript, error)
	BurnInSubtitles(ctx context.Context, req BurnRequest) (Artifact, error)
}

// AudioRequest asks for the audio track of Key. UID optionally namespaces the output key.
type AudioRequest struct {
	Bucket string
	Key    string
	UID    string
}

// TranscribeRequest asks for the transcript and subtitles of AudioKey, stored under IID.
type TranscribeRequest struct {
	Bucket   string
	IID      string
	AudioKey string
}

// BurnRequest asks for VideoKey with SRTKey composited onto the frames.
type BurnRequest struct {
	Bucket   string
	VideoKey string
	SRTKey   string
}

// Artifact locates a produced blob. URL is a presigned read location when set.
type Artifact struct {
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
	URL    string `json:"url,omitempty"`
}

// Transcript holds the two success artifacts of the Transcribe stage.
type Transcript struct {
	Text      Artifact `json:"text"`
	Subtitles Artifact `json:"subtitles"`
}
