/*
Copyright © 2018 the cemhyd authors.
This file is part of cemhyd.

cemhyd is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

cemhyd is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with cemhyd.  If not, see <http://www.gnu.org/licenses/>.
*/

package blobstore

import (
	"context"
	"io"
	"testing"
)

func TestIsBlobRecognizesCloudPrefixes(t *testing.T) {
	cases := map[string]bool{
		"gs://bucket/object":   true,
		"s3://bucket/object":   true,
		"/local/path/file.csv": false,
		"file.csv":             false,
		"":                     false,
	}
	for path, want := range cases {
		if got := IsBlob(path); got != want {
			t.Errorf("IsBlob(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestOpenBucketUnsupportedProviderErrors(t *testing.T) {
	_, err := OpenBucket(context.Background(), "gs://some-bucket")
	if err == nil {
		t.Fatal("expected an error for the unsupported gs provider")
	}
}

func TestOpenBucketFileProviderOpensLocalDirectory(t *testing.T) {
	dir := t.TempDir()
	bucket, err := OpenBucket(context.Background(), "file://"+dir)
	if err != nil {
		t.Fatalf("OpenBucket: %v", err)
	}
	defer bucket.Close()

	w, err := bucket.NewWriter(context.Background(), "hello.txt", nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := io.WriteString(w, "hi"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestWriterRejectsNonBlobPath(t *testing.T) {
	_, err := Writer(context.Background(), "/local/path/file.csv")
	if err == nil {
		t.Fatal("expected an error for a non-blob path")
	}
}

func TestWriterRejectsGSPathSinceNoCredentialChainIsWired(t *testing.T) {
	// gs:// satisfies IsBlob but OpenBucket deliberately has no "gs" case,
	// so Writer must surface that as an error rather than hang trying to
	// reach a real Google Cloud Storage backend.
	_, err := Writer(context.Background(), "gs://some-bucket/output.csv")
	if err == nil {
		t.Fatal("expected an error for an unsupported gs:// blob path")
	}
}
