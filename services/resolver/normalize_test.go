package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) *payload {
	t.Helper()
	p, err := decodePayload([]byte(body))
	require.NoError(t, err)
	return p
}

func TestNormalize_InvidiousShape(t *testing.T) {
	p := decode(t, `{
		"title": "Test Video",
		"lengthSeconds": 213,
		"formatStreams": [
			{"itag": "18", "type": "video/mp4; codecs=\"avc1\"", "resolution": "360p", "size": "640x360"}
		],
		"adaptiveFormats": [
			{"itag": 137, "type": "video/mp4", "qualityLabel": "1080p", "contentLength": "104857600"},
			{"itag": "251", "type": "audio/webm", "contentLength": "3145728"}
		],
		"recommendedVideos": [
			{"videoId": "aaa111"},
			{"videoId": "bbb222"}
		]
	}`)

	meta := Normalize(p, "dQw4w9WgXcQ")
	assert.Equal(t, "dQw4w9WgXcQ", meta.ID)
	assert.Equal(t, "Test Video", meta.Title)
	assert.Equal(t, int64(213), meta.Duration)
	require.Len(t, meta.Formats, 3)

	f1080 := meta.Formats[1]
	assert.Equal(t, "137", f1080.FormatID)
	assert.Equal(t, "mp4", f1080.Ext)
	assert.Equal(t, "1080p", f1080.Resolution)
	assert.Equal(t, 100.0, f1080.FilesizeMB)

	assert.Equal(t, []string{"aaa111", "bbb222"}, meta.RelatedIDs)
}

func TestNormalize_AlternateShape(t *testing.T) {
	p := decode(t, `{
		"title": "Alt Video",
		"duration": 120,
		"videoStreams": [
			{"format_id": "hls-1", "ext": "m3u8", "quality": "720p", "filesize": 52428800}
		],
		"relatedStreams": [
			{"url": "/watch?v=ccc333"},
			{"url": "https://pipedapi.example/watch?v=ddd444&list=x"}
		]
	}`)

	meta := Normalize(p, "vid123")
	assert.Equal(t, int64(120), meta.Duration)
	require.Len(t, meta.Formats, 1)
	assert.Equal(t, "hls-1", meta.Formats[0].FormatID)
	assert.Equal(t, "m3u8", meta.Formats[0].Ext)
	assert.Equal(t, "720p", meta.Formats[0].Resolution)
	assert.Equal(t, 50.0, meta.Formats[0].FilesizeMB)

	assert.Equal(t, []string{"ccc333", "ddd444"}, meta.RelatedIDs)
}

func TestNormalize_DeduplicatesFormats(t *testing.T) {
	p := decode(t, `{
		"title": "Dup",
		"formatStreams": [
			{"itag": "18", "type": "video/mp4", "resolution": "360p", "contentLength": "1048576"}
		],
		"adaptiveFormats": [
			{"itag": "18", "type": "video/mp4", "resolution": "360p", "contentLength": "9999999"}
		]
	}`)

	meta := Normalize(p, "vid")
	require.Len(t, meta.Formats, 1)
	// First occurrence wins.
	assert.Equal(t, 1.0, meta.Formats[0].FilesizeMB)
}

func TestNormalize_NonNumericSizeIsZero(t *testing.T) {
	p := decode(t, `{
		"title": "NoSize",
		"formatStreams": [{"itag": "22", "type": "video/mp4", "resolution": "720p", "contentLength": "unknown"}]
	}`)

	meta := Normalize(p, "vid")
	require.Len(t, meta.Formats, 1)
	assert.Equal(t, 0.0, meta.Formats[0].FilesizeMB)
}

func TestNormalize_FormatFallbacks(t *testing.T) {
	p := decode(t, `{
		"title": "Bare",
		"formatStreams": [{"contentLength": "123456789"}]
	}`)

	meta := Normalize(p, "vid")
	require.Len(t, meta.Formats, 1)
	f := meta.Formats[0]
	assert.Equal(t, "123456", f.FormatID, "truncated byte count serves as last-resort id")
	assert.Equal(t, "mp4", f.Ext)
	assert.Equal(t, "unknown", f.Resolution)
}

func TestNormalize_TitleFallback(t *testing.T) {
	p := decode(t, `{"formatStreams": []}`)
	meta := Normalize(p, "abc123")
	assert.Equal(t, "yt:abc123", meta.Title)
}

func TestDecodePayload_NestedRunsTitleTakesFirstEntry(t *testing.T) {
	p := decode(t, `{"title": {"runs": [{"text": "First"}, {"text": "Second"}]}}`)
	assert.Equal(t, "First", p.title())
}

func TestDecodePayload_TitleEquivalentFallbacks(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"video_title field", `{"video_title": "VT Video"}`, "VT Video"},
		{"name field", `{"name": "Named Video"}`, "Named Video"},
		{"title wins over video_title", `{"title": "Primary", "video_title": "Secondary"}`, "Primary"},
		{"video_title wins over name", `{"video_title": "VT", "name": "N"}`, "VT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, decode(t, tc.body).title())
		})
	}
}

func TestNormalize_MimeTypeWinsOverExtField(t *testing.T) {
	p := decode(t, `{
		"title": "T",
		"formatStreams": [{"itag": "18", "type": "video/webm; codecs=\"vp9\"", "ext": "mp4"}]
	}`)

	meta := Normalize(p, "vid")
	require.Len(t, meta.Formats, 1)
	assert.Equal(t, "webm", meta.Formats[0].Ext)
}

func TestDecodePayload_NumericStringCoercions(t *testing.T) {
	p := decode(t, `{
		"title": "T",
		"lengthSeconds": "213",
		"formatStreams": [{"itag": 18, "contentLength": 1048576}]
	}`)

	meta := Normalize(p, "vid")
	assert.Equal(t, int64(213), meta.Duration)
	require.Len(t, meta.Formats, 1)
	assert.Equal(t, "18", meta.Formats[0].FormatID)
	assert.Equal(t, 1.0, meta.Formats[0].FilesizeMB)
}

func TestNormalize_RelatedDeduplicated(t *testing.T) {
	p := decode(t, `{
		"title": "T",
		"recommendedVideos": [{"videoId": "x1"}, {"videoId": "x1"}, {"videoId": "x2"}]
	}`)

	meta := Normalize(p, "vid")
	assert.Equal(t, []string{"x1", "x2"}, meta.RelatedIDs)
}
