package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"oneira/pkg/utils"
)

// MaxDecodedAudioBytes caps recordings at 1.5 MiB of decoded audio. Larger
// payloads are rejected before any provider call.
const MaxDecodedAudioBytes = 1_572_864

const decodeChunkSize = 32 * 1024

type TranscriptionServiceInterface interface {
	Transcribe(ctx context.Context, base64Audio string) (string, error)
}

type TranscriptionService struct {
	transcriber utils.TranscriberInterface
}

func NewTranscriptionService(transcriber utils.TranscriberInterface) TranscriptionServiceInterface {
	return &TranscriptionService{
		transcriber: transcriber,
	}
}

func (t *TranscriptionService) Transcribe(ctx context.Context, base64Audio string) (string, error) {
	encoded := stripDataURLPrefix(base64Audio)
	if encoded == "" {
		return "", utils.ErrInvalidInput
	}

	// Cheap pre-check on the encoded length; saves decoding a payload that
	// cannot possibly fit.
	if base64.StdEncoding.DecodedLen(len(encoded)) > MaxDecodedAudioBytes+decodeChunkSize {
		return "", utils.ErrAudioTooLarge
	}

	audio, err := decodeBounded(encoded, MaxDecodedAudioBytes)
	if err != nil {
		return "", err
	}
	if len(audio) == 0 {
		return "", utils.ErrInvalidInput
	}

	text, err := t.transcriber.Transcribe(ctx, audio, "dream-recording.webm")
	if err != nil {
		return "", err
	}
	return text, nil
}

// decodeBounded streams the base64 payload through a fixed-size chunk buffer
// instead of materializing one giant intermediate slice, and aborts as soon
// as the decoded size passes the cap.
func decodeBounded(encoded string, maxBytes int) ([]byte, error) {
	dec := base64.NewDecoder(base64.StdEncoding, strings.NewReader(encoded))

	var out bytes.Buffer
	out.Grow(decodeChunkSize)
	chunk := make([]byte, decodeChunkSize)

	for {
		n, err := dec.Read(chunk)
		if n > 0 {
			if out.Len()+n > maxBytes {
				return nil, utils.ErrAudioTooLarge
			}
			out.Write(chunk[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed base64 audio", utils.ErrInvalidInput)
		}
	}

	return out.Bytes(), nil
}

func stripDataURLPrefix(s string) string {
	if strings.HasPrefix(s, "data:") {
		if i := strings.IndexByte(s, ','); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}
