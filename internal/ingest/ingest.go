package ingest

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/subtitle-flow/internal/artifact"
	"github.com/nguyentantai21042004/subtitle-flow/internal/coordinator"
	"github.com/nguyentantai21042004/subtitle-flow/internal/dispatch"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
	"github.com/nguyentantai21042004/subtitle-flow/internal/processor"
)

// Process uploads videoPath, extracts its audio, starts transcription, polls
// until the job is terminal and burns the subtitles in.
func (i *implIngester) Process(ctx context.Context, videoPath string) (Result, error) {
	startTime := time.Now()
	res := Result{IID: i.newID()}
	ctx = logger.WithJob(ctx, res.IID)

	i.logger.Info(ctx, "Starting video processing: %s", videoPath)

	// Step 1: Upload the source video
	res.Video = processor.Artifact{Key: artifact.UploadKey(filepath.Base(videoPath)), Bucket: i.bucket}
	if err := i.store.Upload(ctx, i.bucket, res.Video.Key, videoPath); err != nil {
		return res, fmt.Errorf("upload video: %w", err)
	}

	// Step 2: Extract audio
	audio, err := i.processor.ExtractAudio(ctx, processor.AudioRequest{
		Bucket: i.bucket,
		Key:    res.Video.Key,
		UID:    res.IID,
	})
	if err != nil {
		return res, fmt.Errorf("extract audio: %w", err)
	}
	res.Audio = audio

	// Step 3: Dispatch transcription
	if _, err := i.coordinator.Start(ctx, dispatch.Job{
		IID:    res.IID,
		Bucket: i.bucket,
		Audio:  audio.Key,
		Video:  &dispatch.VideoRef{Key: res.Video.Key},
	}); err != nil {
		return res, fmt.Errorf("start transcription: %w", err)
	}

	// Step 4: Poll until done
	transcript, err := i.waitForTranscript(ctx, res.IID)
	if err != nil {
		return res, err
	}
	res.Transcript = transcript

	// Step 5: Burn subtitles into the video
	subtitled, err := i.processor.BurnInSubtitles(ctx, processor.BurnRequest{
		Bucket:   i.bucket,
		VideoKey: res.Video.Key,
		SRTKey:   transcript.Subtitles.Key,
	})
	if err != nil {
		return res, fmt.Errorf("burn subtitles: %w", err)
	}
	res.Subtitled = subtitled

	i.logger.Info(ctx, "Processing completed in %s", time.Since(startTime).Round(time.Millisecond))
	i.logger.Info(ctx, "Output video: %s", subtitled.URL)
	i.logger.Info(ctx, "Output subtitle: %s", transcript.Subtitles.URL)
	return res, nil
}

// waitForTranscript polls on the configured interval until the job leaves
// PENDING or the timeout elapses. The dispatched run is not cancelled on
// timeout; it still writes its terminal marker.
func (i *implIngester) waitForTranscript(ctx context.Context, iid string) (processor.Transcript, error) {
	ctx, cancel := context.WithTimeout(ctx, i.poll.Timeout)
	defer cancel()

	ticker := time.NewTicker(i.poll.Interval)
	defer ticker.Stop()

	for {
		resp, err := i.coordinator.Poll(ctx, coordinator.PollRequest{Bucket: i.bucket, IID: iid})
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return processor.Transcript{}, i.pollTimeout(iid)
			}
			return processor.Transcript{}, fmt.Errorf("poll: %w", err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			transcript, ok := resp.Body.(processor.Transcript)
			if !ok {
				return processor.Transcript{}, fmt.Errorf("poll: unexpected body %T", resp.Body)
			}
			return transcript, nil
		case http.StatusInternalServerError:
			return processor.Transcript{}, fmt.Errorf("job %s: %w", iid, ErrTranscriptionFailed)
		}

		i.logger.Debug(ctx, "Still waiting for transcription")

		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return processor.Transcript{}, i.pollTimeout(iid)
			}
			return processor.Transcript{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (i *implIngester) pollTimeout(iid string) error {
	return fmt.Errorf("job %s after %s: %w", iid, i.poll.Timeout, ErrPollTimeout)
}
