package gcsuploader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	tests := []struct {
		prefix, base, ext string
		want              string
	}{
		{"exports", "20260201T120000Z", "csv", "exports/20260201T120000Z.csv"},
		{"/exports/ledger/", "snap", ".json", "exports/ledger/snap.json"},
		{"", "snap", "csv", "snap.csv"},
		{"exports", "snap", "", "exports/snap"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectName(tt.prefix, tt.base, tt.ext))
		})
	}
}

func TestGCSURI(t *testing.T) {
	assert.Equal(t, "gs://bucket/exports/a.csv", GCSURI("bucket", "exports/a.csv"))
}
