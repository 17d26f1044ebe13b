// backend/src/security/validation/file_validation_test.go
package validation

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/corpinsights/backend/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func TestValidateClientContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{"xlsx mime", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", false},
		{"legacy excel mime", "application/vnd.ms-excel", false},
		{"octet-stream fallback", "application/octet-stream", false},
		{"uppercase normalized", "Application/VND.MS-Excel", false},
		{"csv rejected", "text/csv", true},
		{"plain text rejected", "text/plain", true},
		{"html rejected", "text/html", true},
		{"empty rejected", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClientContentType(tt.contentType)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateWorkbookSignature(t *testing.T) {
	zipContent := append([]byte{0x50, 0x4b, 0x03, 0x04}, bytes.Repeat([]byte{0x00}, 64)...)

	t.Run("zip signature accepted", func(t *testing.T) {
		detected, err := ValidateWorkbookSignature(bytes.NewReader(zipContent))
		require.NoError(t, err)
		assert.NotEmpty(t, detected)
	})

	t.Run("reader reset after check", func(t *testing.T) {
		r := bytes.NewReader(zipContent)
		_, err := ValidateWorkbookSignature(r)
		require.NoError(t, err)

		first := make([]byte, 4)
		_, err = r.Read(first)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x50, 0x4b, 0x03, 0x04}, first, "parser must see the file from the start")
	})

	t.Run("text rejected", func(t *testing.T) {
		_, err := ValidateWorkbookSignature(bytes.NewReader([]byte("id,date,amount\n1,2023-01-01,5\n")))
		assert.Error(t, err)
	})

	t.Run("empty rejected", func(t *testing.T) {
		_, err := ValidateWorkbookSignature(bytes.NewReader(nil))
		assert.Error(t, err)
	})

	t.Run("nil rejected", func(t *testing.T) {
		_, err := ValidateWorkbookSignature(nil)
		assert.Error(t, err)
	})
}
