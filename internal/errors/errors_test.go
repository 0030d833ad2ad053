package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewValidationError(ErrCodeInvalidInput, "binary content", nil),
			want: "INVALID_INPUT: binary content",
		},
		{
			name: "with cause",
			err:  NewIOError(ErrCodeFileNotReadable, "cannot read", io.ErrUnexpectedEOF),
			want: "FILE_NOT_READABLE: cannot read (caused by: unexpected EOF)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	base := NewNotFoundError(ErrCodeNotFound, "resume not found", nil).WithContext("id", "res-1")
	wrapped := fmt.Errorf("lookup: %w", base)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeNotFound, appErr.Type)
	assert.Equal(t, "res-1", appErr.Context["id"])
	assert.True(t, HasCode(wrapped, ErrCodeNotFound))
	assert.True(t, IsType(wrapped, ErrorTypeNotFound))
	assert.False(t, HasCode(io.EOF, ErrCodeNotFound))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_LogErrorIncludesCode(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug).Component("scoring")

	logger.LogError(NewValidationError(ErrCodeInvalidInput, "bad", nil), "score failed", "resume_id", "res-1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "score failed", record["msg"])
	assert.Equal(t, "INVALID_INPUT", record["error_code"])
	assert.Equal(t, "scoring", record["component"])
	assert.Equal(t, "res-1", record["resume_id"])
}
