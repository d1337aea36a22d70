package csvio

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string, gz bool) {
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	var w io.Writer = file
	if gz {
		gzw := gzip.NewWriter(file)
		defer gzw.Close()
		w = gzw
	}
	_, err = io.WriteString(w, content)
	require.NoError(t, err)
}

func TestFileLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "customers.csv", "name;phone\nAna;1\nBo;2\n", false)
	writeFile(t, dir, "customers.csv.gz", "name,phone\nCy,3\n", true)

	loader := NewFileLoader(dir, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name     string
		source   string
		expected int
		wantErr  bool
	}{
		{name: "Plain file", source: "customers.csv", expected: 2},
		{name: "Gzipped file", source: "customers.csv.gz", expected: 1},
		{name: "Traversal stays inside base", source: "../customers.csv", expected: 2},
		{name: "Missing file", source: "missing.csv", wantErr: true},
		{name: "Empty name", source: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := loader.Load(ctx, tt.source)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.Len(t, doc.Rows, tt.expected)
		})
	}
}

func TestFileLoader_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "a\n1\n", false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileLoader(dir, zerolog.Nop()).Load(ctx, "a.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeS3 struct {
	objects map[string]string
	keys    []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.keys = append(f.keys, *in.Key)
	body, ok := f.objects[*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Loader_Load(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"imports/c.csv": "name;phone\nAna;1\n"}}
	loader := NewS3LoaderWithClient(client, "bucket", zerolog.Nop())

	doc, err := loader.Load(context.Background(), "imports/c.csv")
	require.NoError(t, err)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "Ana", doc.Rows[0].Get("name"))

	_, err = loader.Load(context.Background(), "imports/missing.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket=bucket")
}

// mockLoader is a mock implementation of the Loader interface for testing.
type mockLoader struct {
	loadFunc func(ctx context.Context, name string) (*Document, error)
}

func (m *mockLoader) Load(ctx context.Context, name string) (*Document, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, name)
	}
	return nil, errors.New("not implemented")
}

func TestFallbackLoader(t *testing.T) {
	ctx := context.Background()
	s3Doc := &Document{Headers: []string{"from"}, Rows: []Row{{Line: 2, Data: map[string]string{"from": "s3"}}}}
	localDoc := &Document{Headers: []string{"from"}, Rows: []Row{{Line: 2, Data: map[string]string{"from": "local"}}}}

	tests := []struct {
		name      string
		s3Enabled bool
		s3Err     error
		expected  string
	}{
		{name: "S3 success", s3Enabled: true, expected: "s3"},
		{name: "S3 fails falls back to local", s3Enabled: true, s3Err: errors.New("S3 connection failed"), expected: "local"},
		{name: "S3 disabled", s3Enabled: false, expected: "local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s3 := &mockLoader{loadFunc: func(_ context.Context, name string) (*Document, error) {
				assert.Equal(t, "imports/c.csv", name, "S3 key should have prefix")
				if tt.s3Err != nil {
					return nil, tt.s3Err
				}
				return s3Doc, nil
			}}
			local := &mockLoader{loadFunc: func(_ context.Context, name string) (*Document, error) {
				assert.Equal(t, "c.csv", name, "local path should not have prefix")
				return localDoc, nil
			}}

			doc, err := NewFallbackLoader(s3, local, "imports/", tt.s3Enabled, zerolog.Nop()).Load(ctx, "c.csv")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, doc.Rows[0].Get("from"))
		})
	}
}

func TestParse_BadGzip(t *testing.T) {
	_, err := parse(context.Background(), bytes.NewReader([]byte("not gzip")), "x.csv.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}
