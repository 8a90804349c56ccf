package errors

import (
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnnotatedError(t *testing.T) {
	err := New("test error", slog.String("id", "123"))
	require.Equal(t, "test error", err.Error())

	// Assert that wrapping sentinel errors work as expected.
	sentinel := NewSentinel("test error")
	require.NotErrorIs(t, err, NewSentinel("test error"))
	wrapped := err.Wrap(sentinel)
	require.ErrorIs(t, wrapped, sentinel)

	// Ensure log values are coming through.
	group := err.LogValue().Group()
	require.Contains(t, group, slog.String("id", "123"))

	// Assert there's a valid source
	sourceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "source"
	})
	source := group[sourceIdx]
	require.Contains(t, source.Value.String(), "annotatederror_test.go")
}

func TestWrap(t *testing.T) {
	t.Parallel()
	require.NoError(t, Wrap(nil, "nothing to wrap"))

	sentinel := NewSentinel("save not found")
	wrapped := Wrap(sentinel, "load save", slog.String("slot", "autosave"))
	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "load save: save not found", wrapped.Error())

	var annotated AnnotatedError
	require.True(t, As(wrapped, &annotated))
	group := annotated.LogValue().Group()
	require.Contains(t, group, slog.String("slot", "autosave"))
	sourceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "source"
	})
	require.Contains(t, group[sourceIdx].Value.String(), "annotatederror_test.go")
}

func TestSlogError(t *testing.T) {
	t.Parallel()
	attr := SlogError(Wrap(NewSentinel("boom"), "roll dice"))
	require.Equal(t, "error", attr.Key)
	group := attr.Value.Group()
	require.Contains(t, group, slog.String("msg", "roll dice: boom"))
}
