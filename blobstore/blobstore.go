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

// Package blobstore resolves the workdir and output-file paths named in
// spec.md sections 6.1/6.4 to either the local filesystem or a cloud blob
// bucket, so a run's CSV/snapshot/progress outputs can be written directly
// to s3:// locations without a separate upload step. gs:// paths are
// recognised by IsBlob but rejected by OpenBucket.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws/session"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/s3blob"
)

// IsBlob reports whether path names a cloud bucket location rather than a
// local filesystem path, mirroring inmaputil's IsBlob convention.
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://")
}

// OpenBucket opens the bucket named by a "provider://name" URL. Two
// providers are wired: "file" (a local directory, via fileblob) and "s3"
// (via aws-sdk-go's default session
// credential chain); "gs" is deliberately not supported -- see
// DESIGN.md's dropped-dependency notes for why no Google Cloud credential
// chain is wired into this CLI.
func OpenBucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	u, err := url.Parse(bucketName)
	if err != nil {
		return nil, fmt.Errorf("cemhyd/blobstore: %w", err)
	}
	switch u.Scheme {
	case "file":
		return fileblob.OpenBucket(u.Path, nil)
	case "s3":
		return s3Bucket(ctx, u.Hostname())
	default:
		return nil, fmt.Errorf("cemhyd/blobstore: unsupported provider %q", u.Scheme)
	}
}

func s3Bucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, fmt.Errorf("cemhyd/blobstore: creating AWS session: %w", err)
	}
	return s3blob.OpenBucket(ctx, sess, bucketName, nil)
}

// Writer resolves an output path (local or blob) to a WriteCloser, so
// package output's CSVWriter/ProgressWriter/snapshot writer can all be
// constructed identically regardless of where the run's workdir lives.
func Writer(ctx context.Context, path string) (io.WriteCloser, error) {
	if !IsBlob(path) {
		return nil, fmt.Errorf("cemhyd/blobstore: %q is not a blob path; open it with os.Create instead", path)
	}
	u, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("cemhyd/blobstore: %w", err)
	}
	bucket, err := OpenBucket(ctx, u.Scheme+"://"+u.Host)
	if err != nil {
		return nil, err
	}
	key := strings.TrimPrefix(u.Path, "/")
	return bucket.NewWriter(ctx, key, nil)
}
