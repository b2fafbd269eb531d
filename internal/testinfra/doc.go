// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

//go:build integration

/*
Package testinfra provides testcontainers helpers for integration tests.

All files carry the integration build tag:

	go test -tags integration ./internal/storage/...

# MinIO

NewMinIOContainer starts an S3-compatible server for exercising the cloud
storage backend against a real object store:

	func TestCloudBackend(t *testing.T) {
	    testinfra.SkipIfNoDocker(t)
	    ctx := context.Background()
	    s3, err := testinfra.NewMinIOContainer(ctx)
	    if err != nil {
	        t.Fatal(err)
	    }
	    defer testinfra.CleanupContainer(t, ctx, s3)
	    // s3.Endpoint, s3.AccessKey, s3.SecretKey
	}
*/
package testinfra
