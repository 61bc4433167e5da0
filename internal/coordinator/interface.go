package coordinator

import (
	"context"
	"encoding/json"

	"github.com/nguyentantai21042004/subtitle-flow/internal/dispatch"
	"github.com/nguyentantai21042004/subtitle-flow/internal/processor"
)

const (
	MsgStarted = "Processing started..."
	MsgWarmup  = "Warming up the transcriptor"
	MsgPending = "Still waiting..."
	MsgError   = "Error in the Transcriptor"
)

// Coordinator is the API side of a transcription job: it hands jobs off and
// reports their state, which it derives from the blob store on every call.
type Coordinator interface {
	Start(ctx context.Context, job dispatch.Job) (Response, error)
	Poll(ctx context.Context, req PollRequest) (Response, error)
	// State probes the blob store and returns the current job state.
	State(ctx context.Context, bucket, iid string) (State, error)
}

// Storage is the part of the blob store the coordinator relies on.
type Storage interface {
	Exists(ctx context.Context, bucket, key string) (bool, error)
	Presign(ctx context.Context, bucket, key string) (string, error)
	Put(ctx context.Context, bucket, key string, data []byte) error
}

// Stage runs the transcription itself.
type Stage interface {
	Transcribe(ctx context.Context, req processor.TranscribeRequest) (processor.Transcript, error)
}

type PollRequest struct {
	Bucket string `json:"bucket,omitempty"`
	IID    string `json:"IID"`
}

// UnmarshalJSON accepts IID as a JSON string or a JSON number.
func (r *PollRequest) UnmarshalJSON(data []byte) error {
	type plain PollRequest
	aux := struct {
		*plain
		IID json.RawMessage `json:"IID"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	iid, err := dispatch.DecodeID(aux.IID)
	if err != nil {
		return err
	}
	r.IID = iid
	return nil
}

// Response mirrors an HTTP reply: a status code and a JSON body.
type Response struct {
	StatusCode int `json:"statusCode"`
	Body       any `json:"body"`
}

type Message struct {
	Message string `json:"message"`
}
