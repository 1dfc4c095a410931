package s3x

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, (&Config{}).Validate())
	assert.NoError(t, (&Config{Bucket: "uploads"}).Validate())
}

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "custom endpoint",
			cfg:  Config{Bucket: "uploads", Endpoint: "https://minio.local:9000"},
			want: "https://minio.local:9000/uploads/docs/a.pdf",
		},
		{
			name: "regional",
			cfg:  Config{Bucket: "uploads", Region: "eu-west-1"},
			want: "https://uploads.s3.eu-west-1.amazonaws.com/docs/a.pdf",
		},
		{
			name: "global",
			cfg:  Config{Bucket: "uploads"},
			want: "https://uploads.s3.amazonaws.com/docs/a.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Adapter{config: tt.cfg}
			assert.Equal(t, tt.want, a.objectURL("docs/a.pdf"))
		})
	}
}

func TestCountingReader_CapsAt99(t *testing.T) {
	content := strings.Repeat("x", 1000)
	var reported []int
	cr := &countingReader{
		r:          strings.NewReader(content),
		total:      int64(len(content)),
		onProgress: func(p int) { reported = append(reported, p) },
	}

	_, err := io.Copy(io.Discard, cr)
	require.NoError(t, err)

	require.NotEmpty(t, reported)
	for i, p := range reported {
		assert.LessOrEqual(t, p, 99)
		if i > 0 {
			assert.Greater(t, p, reported[i-1], "progress reports only increase")
		}
	}
	assert.Equal(t, 99, reported[len(reported)-1])
}
