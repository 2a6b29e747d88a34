package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oneira/pkg/utils"
)

type fakeTranscriber struct {
	text  string
	err   error
	calls int
	audio []byte
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio []byte, _ string) (string, error) {
	f.calls++
	f.audio = audio
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestTranscribeDecodesAudio(t *testing.T) {
	transcriber := &fakeTranscriber{text: "last night I dreamed of the sea"}
	svc := NewTranscriptionService(transcriber)

	raw := []byte("webm-opus-bytes")
	text, err := svc.Transcribe(context.Background(), base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)

	assert.Equal(t, "last night I dreamed of the sea", text)
	assert.Equal(t, raw, transcriber.audio)
	assert.Equal(t, 1, transcriber.calls)
}

func TestTranscribeStripsDataURLPrefix(t *testing.T) {
	transcriber := &fakeTranscriber{text: "ok"}
	svc := NewTranscriptionService(transcriber)

	raw := []byte("some audio")
	payload := "data:audio/webm;base64," + base64.StdEncoding.EncodeToString(raw)

	_, err := svc.Transcribe(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, raw, transcriber.audio)
}

func TestTranscribeRejectsOversizeAudio(t *testing.T) {
	transcriber := &fakeTranscriber{text: "should not run"}
	svc := NewTranscriptionService(transcriber)

	oversize := bytes.Repeat([]byte{0xAB}, MaxDecodedAudioBytes+1)
	_, err := svc.Transcribe(context.Background(), base64.StdEncoding.EncodeToString(oversize))

	assert.ErrorIs(t, err, utils.ErrAudioTooLarge)
	assert.Zero(t, transcriber.calls, "provider must not see oversize audio")
}

func TestTranscribeAcceptsAudioAtTheCap(t *testing.T) {
	transcriber := &fakeTranscriber{text: "full recording"}
	svc := NewTranscriptionService(transcriber)

	exact := bytes.Repeat([]byte{0xCD}, MaxDecodedAudioBytes)
	text, err := svc.Transcribe(context.Background(), base64.StdEncoding.EncodeToString(exact))
	require.NoError(t, err)

	assert.Equal(t, "full recording", text)
	assert.Len(t, transcriber.audio, MaxDecodedAudioBytes)
}

func TestTranscribeRejectsEmptyPayload(t *testing.T) {
	svc := NewTranscriptionService(&fakeTranscriber{})

	_, err := svc.Transcribe(context.Background(), "")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = svc.Transcribe(context.Background(), "data:audio/webm;base64,")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestTranscribeRejectsMalformedBase64(t *testing.T) {
	svc := NewTranscriptionService(&fakeTranscriber{})

	_, err := svc.Transcribe(context.Background(), "!!!not-base64!!!")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}
