// Package s3 fetches software tarballs from an S3-compatible bucket.
//
// Setup uses it to fill conf/upload with tarballs that are missing
// locally before they are sent to the proxy. Any endpoint speaking the S3
// protocol works; a custom endpoint is addressed path-style so MinIO and
// similar servers need no DNS setup.
package s3
